package config

import "context"

// SecretProvider abstracts the retrieval of secrets so that AWS SSM Parameter
// Store (deployed) and plain environment variables (local) are interchangeable.
type SecretProvider interface {
	// GetParametersBatch resolves multiple secret identifiers at once and
	// returns key -> plaintext for every key that was found.
	GetParametersBatch(ctx context.Context, keys []string) (map[string]string, error)
}
