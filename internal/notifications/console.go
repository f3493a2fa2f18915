package notifications

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"raincheck/internal/types"
)

// Console writes plain lines to a writer (stdout in production). It is both
// the default sink and the fallback of every other sink.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// Compile-time assertion that Console implements Sink.
var _ Sink = (*Console)(nil)

// NewConsole creates a Console writing to w, or to os.Stdout when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

// Type returns the channel type identifier for the console.
func (c *Console) Type() types.ChannelType {
	return types.ChannelConsole
}

// Send prints the notification text.
func (c *Console) Send(_ context.Context, n *Notification) (Receipt, error) {
	c.Println(n.Text)
	return Receipt{Channel: types.ChannelConsole}, nil
}

// Println writes one line. Write errors are ignored: there is nowhere left
// to report them.
func (c *Console) Println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, line)
}

// Fallback prints diagnostic followed by the notification text and returns
// the receipt of a degraded delivery.
func (c *Console) Fallback(diagnostic string, n *Notification) Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, diagnostic)
	_, _ = fmt.Fprintln(c.w, n.Text)
	return Receipt{Channel: types.ChannelConsole, Fallback: true}
}
