// Package securestore persists small pieces of session state across
// restarts, with values obfuscated by a reversible encoding.
//
// This is deliberately NOT cryptographic confidentiality: values are
// JSON-serialized and base64-encoded, and anyone with access to the
// backing file can decode them. The store exists as an auto-reconnect
// hint, not a secret vault; if genuine confidentiality is ever required
// this must be redesigned with real encryption and key management.
package securestore

import (
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sorayia-labs/stakectl/internal/logging"
)

// LastConnectedAddressKey holds the last-connected wallet address.
const LastConnectedAddressKey = "lastConnectedAddress"

// Store is a file-backed key/value store. All operations are
// best-effort: encoding or storage failures are logged and swallowed,
// never propagated, because persistence is an optimization and must not
// block the staking flow.
type Store struct {
	path string

	mu   sync.Mutex
	data map[string]string // key -> base64(json(value))
}

// Open loads the store at path, creating an empty one if the file is
// missing or unreadable.
func Open(path string) *Store {
	s := &Store{
		path: path,
		data: make(map[string]string),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("failed to read store file", "path", path, logging.Err(err))
		}
		return s
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		logging.Warn("store file corrupt, starting empty", "path", path, logging.Err(err))
		s.data = make(map[string]string)
	}
	return s
}

// Set encodes value and writes it under key. Failures are logged, never returned.
func (s *Store) Set(key string, value any) {
	encoded, err := encode(value)
	if err != nil {
		logging.Warn("failed to encode stored value", "key", key, logging.Err(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = encoded
	s.flushLocked()
}

// Get decodes the value under key into out. Returns false when the key
// is absent or the stored value cannot be decoded.
func (s *Store) Get(key string, out any) bool {
	s.mu.Lock()
	encoded, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		logging.Warn("failed to decode stored value", "key", key, logging.Err(err))
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		logging.Warn("failed to unmarshal stored value", "key", key, logging.Err(err))
		return false
	}
	return true
}

// Delete removes key, acting as the explicit cleared marker on
// disconnect or wallet error.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return
	}
	delete(s.data, key)
	s.flushLocked()
}

func (s *Store) flushLocked() {
	raw, err := json.Marshal(s.data)
	if err != nil {
		logging.Warn("failed to marshal store", logging.Err(err))
		return
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			logging.Warn("failed to create store directory", "dir", dir, logging.Err(err))
			return
		}
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		logging.Warn("failed to write store file", "path", s.path, logging.Err(err))
	}
}

func encode(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
