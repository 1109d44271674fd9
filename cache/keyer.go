package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// StaleSuffix is appended to a key to address its stale copy.
const StaleSuffix = ":stale"

// StaleKey returns the key under which the stale copy of key is stored.
func StaleKey(key string) string {
	return key + StaleSuffix
}

// Keyer generates deterministic cache keys from tool invocation inputs.
//
// Contract:
// - Determinism: semantically identical inputs must produce the same key,
//   regardless of map construction or iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from tool name and input.
	Key(toolName string, input any) (string, error)
}

// FingerprintKeyer generates SHA-256 based cache keys.
type FingerprintKeyer struct{}

// NewFingerprintKeyer creates a new fingerprint keyer.
func NewFingerprintKeyer() *FingerprintKeyer {
	return &FingerprintKeyer{}
}

// Key generates a deterministic cache key.
// Format: cache:<toolName>:<hash>
// where hash is the first 16 hex characters of SHA-256(canonical JSON(input)).
func (k *FingerprintKeyer) Key(toolName string, input any) (string, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, input); err != nil {
		return "", fmt.Errorf("cache: failed to canonicalize input: %w", err)
	}

	sum := sha256.Sum256(buf.Bytes())
	return fmt.Sprintf("cache:%s:%s", toolName, hex.EncodeToString(sum[:8])), nil
}

// writeCanonical writes a deterministic JSON representation of v to buf.
// Map keys are sorted recursively so logically identical inputs built in
// different orders fingerprint identically.
func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil

	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		// Scalars and structs use standard JSON encoding, which already
		// emits struct fields in declaration order.
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}

// Ensure FingerprintKeyer implements Keyer
var _ Keyer = (*FingerprintKeyer)(nil)
