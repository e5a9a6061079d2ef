// ABOUTME: Key/value persistence shared by every wusuleable process of a user
// ABOUTME: Defines the Storage interface, well-known keys, and change events

package storage

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrUnavailable is returned when the backing store cannot be read or written.
var ErrUnavailable = errors.New("storage unavailable")

// Well-known keys.
const (
	KeyToken             = "wusuleable.token"
	KeyLanguageCode      = "wusuleable.languageCode"
	KeyLanguagePrompt    = "wusuleable.languageToastShown" // prefix; see locale.AckKey
	KeyLastPurchaseDraft = "wusuleable.lastPurchaseDraft"
	KeyUILocale          = "wusuleable.uiLocale"
)

// Storage is a string key/value store. GetItem reports whether the key exists.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Event describes a change made by another process. NewValue is empty when
// the key was removed.
type Event struct {
	Key      string
	OldValue string
	NewValue string
}

// DefaultStateDir returns the default state directory following XDG spec.
func DefaultStateDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wusuleable")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wusuleable")
}
