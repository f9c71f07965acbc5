package weathersdk

import (
	"context"
	"errors"
	"sync"
)

// Keyring is the durable key-value storage the session persists credentials
// to. Implementations must be safe for concurrent use.
type Keyring interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// ErrKeyNotFound is returned by Keyring.Get for absent keys.
var ErrKeyNotFound = errors.New("weathersdk: key not found")

// Fixed keyring keys. The credential pair lives under the first two; both
// must be present for the pair to count as valid.
const (
	KeyAccessToken  = "accessToken"
	KeyRefreshToken = "refreshToken"
	KeyUsername     = "username"
	KeyPreferences  = "userPreferences"
)

// MemoryKeyring is a process-local Keyring. It is the default when no
// durable backend is supplied and the workhorse of the test suite.
type MemoryKeyring struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{values: make(map[string]string)}
}

func (k *MemoryKeyring) Get(_ context.Context, key string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	v, ok := k.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (k *MemoryKeyring) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
	return nil
}

func (k *MemoryKeyring) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.values, key)
	return nil
}
