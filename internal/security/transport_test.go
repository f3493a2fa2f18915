package security

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockResolver implements Resolver for deterministic testing.
type mockResolver struct {
	ips map[string][]net.IPAddr
	err error
}

func (m *mockResolver) LookupIPAddr(_ context.Context, host string) ([]net.IPAddr, error) {
	if m.err != nil {
		return nil, m.err
	}
	ips, ok := m.ips[host]
	if !ok {
		return nil, fmt.Errorf("no such host: %s", host)
	}
	return ips, nil
}

// slowResolver simulates a DNS resolver that takes too long.
type slowResolver struct {
	delay time.Duration
}

func (s *slowResolver) LookupIPAddr(ctx context.Context, _ string) ([]net.IPAddr, error) {
	select {
	case <-time.After(s.delay):
		return []net.IPAddr{{IP: net.ParseIP("93.184.216.34")}}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newMockResolver(mappings map[string][]string) *mockResolver {
	ips := make(map[string][]net.IPAddr)
	for host, ipStrs := range mappings {
		for _, ipStr := range ipStrs {
			ips[host] = append(ips[host], net.IPAddr{IP: net.ParseIP(ipStr)})
		}
	}
	return &mockResolver{ips: ips}
}

func safeClient(t *testing.T, resolver Resolver) *http.Client {
	t.Helper()
	transport, err := NewSafeTransport(nil)
	require.NoError(t, err)
	transport.Resolver = resolver
	return &http.Client{Transport: transport, Timeout: 5 * time.Second}
}

func TestBlockedCIDRsParse(t *testing.T) {
	require.NoError(t, initBlockedNets())
	assert.Len(t, blockedNets, len(BlockedCIDRs))
}

func TestIsBlockedIP(t *testing.T) {
	require.NoError(t, initBlockedNets())

	tests := []struct {
		ip      string
		blocked bool
	}{
		{"127.0.0.1", true},
		{"127.255.255.255", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"172.31.255.255", true},
		{"172.15.255.255", false},
		{"172.32.0.0", false},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"240.0.0.1", true},
		{"100.64.0.1", true},
		{"198.19.255.255", true},
		{"8.8.8.8", false},
		{"93.184.216.34", false},
		{"::1", true},
		{"fd00::1", true},
		{"fe80::1", true},
		{"2607:f8b0:4004:800::200e", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip)
			assert.Equal(t, tt.blocked, isBlockedIP(ip))
		})
	}
}

func TestSafeTransport_BlocksResolvedPrivateAddresses(t *testing.T) {
	tests := []struct {
		name string
		ips  []string
	}{
		{"localhost", []string{"127.0.0.1"}},
		{"class A", []string{"10.0.0.1"}},
		{"metadata", []string{"169.254.169.254"}},
		{"mixed answer", []string{"93.184.216.34", "10.0.0.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := safeClient(t, newMockResolver(map[string][]string{"hooks.example.com": tt.ips}))

			_, err := client.Get("http://hooks.example.com/rain")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSSRFBlocked), "got: %v", err)
			assert.True(t, IsSSRFError(err))
		})
	}
}

func TestSafeTransport_BlocksIPLiterals(t *testing.T) {
	client := safeClient(t, nil)

	for _, u := range []string{
		"http://127.0.0.1/webhook",
		"http://10.0.0.1/webhook",
		"http://169.254.169.254/latest/meta-data/",
	} {
		_, err := client.Get(u)
		require.Error(t, err, u)
		assert.True(t, errors.Is(err, ErrSSRFBlocked), "%s: %v", u, err)
	}
}

func TestSafeTransport_DNSFailuresFailClosed(t *testing.T) {
	client := safeClient(t, &mockResolver{err: errors.New("dns server unreachable")})
	_, err := client.Get("http://failing-dns.example.com/webhook")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSSRFDNSFailed), "got: %v", err)

	client = safeClient(t, &slowResolver{delay: 2 * time.Second})
	_, err = client.Get("http://slow-dns.example.com/webhook")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSSRFDNSTimeout), "got: %v", err)
}

func TestResolveSafe_AllowsPublicAddresses(t *testing.T) {
	require.NoError(t, initBlockedNets())
	resolver := newMockResolver(map[string][]string{"hooks.slack.com": {"52.1.2.3", "52.1.2.4"}})

	ips, err := resolveSafe(context.Background(), resolver, "hooks.slack.com")
	require.NoError(t, err)
	assert.Len(t, ips, 2)
}

func TestCheckRedirect(t *testing.T) {
	resolver := newMockResolver(map[string][]string{
		"safe.example.com":     {"93.184.216.34"},
		"internal.example.com": {"192.168.1.1"},
	})
	check := CheckRedirect(3, resolver)

	newReq := func(u string) *http.Request {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, u, nil)
		require.NoError(t, err)
		return req
	}

	assert.NoError(t, check(newReq("https://safe.example.com/hook"), []*http.Request{{}, {}}))

	err := check(newReq("https://internal.example.com/hook"), []*http.Request{{}})
	assert.True(t, errors.Is(err, ErrSSRFBlocked), "got: %v", err)

	err = check(newReq("http://169.254.169.254/latest/meta-data/"), []*http.Request{{}})
	assert.True(t, errors.Is(err, ErrSSRFBlocked), "got: %v", err)

	err = check(newReq("https://safe.example.com/hook"), []*http.Request{{}, {}, {}})
	assert.True(t, errors.Is(err, ErrSSRFTooManyRedirects), "got: %v", err)

	slow := CheckRedirect(3, &slowResolver{delay: 2 * time.Second})
	err = slow(newReq("https://slow.example.com/hook"), []*http.Request{{}})
	assert.True(t, errors.Is(err, ErrSSRFDNSTimeout), "got: %v", err)
}

func TestNewSafeHTTPClient(t *testing.T) {
	client, err := NewSafeHTTPClient(10*time.Second, 3)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, client.Timeout)
	assert.NotNil(t, client.CheckRedirect)

	_, ok := client.Transport.(*SafeTransport)
	assert.True(t, ok, "transport should be *SafeTransport")
}

func TestValidateWebhookURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr error
	}{
		{"https://hooks.slack.com/services/T/B/X", nil},
		{"https://example.com:8443/rain", nil},
		{"http://hooks.slack.com/services/T/B/X", ErrInsecureURL},
		{"https://127.0.0.1/webhook", ErrSSRFBlocked},
		{"https://[::1]/webhook", ErrSSRFBlocked},
		{"https://169.254.169.254/latest", ErrSSRFBlocked},
		{"https:///nohost", ErrSSRFBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateWebhookURL(tt.url)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
