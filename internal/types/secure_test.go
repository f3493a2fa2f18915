package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

const testSecret = "pushover-token-12345"

func TestSecretString_Redacts(t *testing.T) {
	s := SecretString(testSecret)

	for _, out := range []string{
		s.String(),
		fmt.Sprintf("token=%s", s),
		fmt.Sprintf("token=%v", s),
	} {
		if strings.Contains(out, testSecret) {
			t.Errorf("formatted output leaked the secret: %q", out)
		}
		if !strings.Contains(out, redactedPlaceholder) {
			t.Errorf("formatted output missing placeholder: %q", out)
		}
	}
}

func TestSecretString_JSON(t *testing.T) {
	payload := struct {
		Token SecretString `json:"token"`
	}{Token: testSecret}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"token":"***REDACTED***"}` {
		t.Errorf("Marshal = %s", raw)
	}
}

func TestSecretString_Unmask(t *testing.T) {
	s := SecretString(testSecret)
	if s.Unmask() != testSecret {
		t.Errorf("Unmask() = %q", s.Unmask())
	}
	if !s.IsSet() || SecretString("").IsSet() {
		t.Error("IsSet mismatch")
	}
}
