package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"sync"

	"github.com/markalston/wusuleable-web/cli/internal/storage"
)

// makeToken builds an unsigned token carrying payload.
func makeToken(payload map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	body, _ := json.Marshal(payload)
	return header + "." + base64.RawURLEncoding.EncodeToString(body) + ".sig"
}

// brokenStorage fails every operation, like a disabled or full disk.
type brokenStorage struct{}

func (brokenStorage) GetItem(string) (string, bool, error) { return "", false, storage.ErrUnavailable }
func (brokenStorage) SetItem(string, string) error         { return storage.ErrUnavailable }
func (brokenStorage) RemoveItem(string) error              { return storage.ErrUnavailable }

// writeFailStorage reads fine but rejects writes.
type writeFailStorage struct {
	*storage.MemoryStorage
}

func (writeFailStorage) SetItem(string, string) error { return errors.New("quota exceeded") }

// readOnlyStorage serves what it holds but rejects writes and removals,
// like a token file that became read-only.
type readOnlyStorage struct {
	*storage.MemoryStorage
}

func (readOnlyStorage) SetItem(string, string) error { return errors.New("read-only file system") }
func (readOnlyStorage) RemoveItem(string) error      { return errors.New("read-only file system") }

type recorder struct {
	mu      sync.Mutex
	changes []Change
}

func (r *recorder) record(c Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) all() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}
