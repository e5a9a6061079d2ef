// ABOUTME: Locale Sync: prompts once per session when the account language
// ABOUTME: differs from the active UI locale and records the user's answer

package locale

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/markalston/wusuleable-web/cli/internal/session"
	"github.com/markalston/wusuleable-web/cli/internal/storage"
)

// State is the prompt visibility.
type State int

const (
	Hidden State = iota
	Shown
)

func (s State) String() string {
	if s == Shown {
		return "shown"
	}
	return "hidden"
}

// Navigator switches the active locale, moving to path.
type Navigator interface {
	Navigate(path string, target Locale) error
}

// AckKey is the storage key marking a (user, token issue time, code) prompt
// as answered.
func AckKey(userID, iat string, code LanguageCode) string {
	return strings.Join([]string{storage.KeyLanguagePrompt, userID, iat, string(code)}, ":")
}

// Prompt is the localized copy for a shown prompt.
type Prompt struct {
	Code    LanguageCode `json:"code"`
	Title   string       `json:"title"`
	Body    string       `json:"body"`
	Primary string       `json:"primary"`
	Close   string       `json:"close"`
}

// Sync decides whether to prompt and applies the answer.
type Sync struct {
	store   *session.Store
	storage storage.Storage
	nav     Navigator
	log     *slog.Logger
	state   State
}

func NewSync(store *session.Store, s storage.Storage, nav Navigator) *Sync {
	return &Sync{store: store, storage: s, nav: nav, log: slog.Default()}
}

// State returns the result of the last Evaluate, Accept or Dismiss.
func (s *Sync) State() State {
	return s.state
}

// claimed returns the token's normalized language code and the ack key for it.
func (s *Sync) claimed() (LanguageCode, string, bool) {
	c := session.Decode(s.store.Get())
	if c == nil {
		return "", "", false
	}
	code, ok := ParseLanguageCode(c.LanguageCode)
	if !ok {
		return "", "", false
	}
	return code, AckKey(c.UserID, c.IAT, code), true
}

// Evaluate recomputes the state for the active locale.
func (s *Sync) Evaluate(active Locale) State {
	s.state = s.evaluate(active)
	return s.state
}

func (s *Sync) evaluate(active Locale) State {
	code, key, ok := s.claimed()
	if !ok || code == FromLocale(active) {
		return Hidden
	}
	if s.storage != nil {
		if v, _, err := s.storage.GetItem(key); err == nil && v == "1" {
			return Hidden
		}
	}
	return Shown
}

// Prompt returns the copy in the active locale, or nil when hidden.
func (s *Sync) Prompt(active Locale) *Prompt {
	if s.state != Shown {
		return nil
	}
	code, _, ok := s.claimed()
	if !ok {
		return nil
	}
	return promptCopy(active, code)
}

func promptCopy(active Locale, code LanguageCode) *Prompt {
	same := code == FromLocale(active)
	if active == Turkish {
		p := &Prompt{
			Code:    code,
			Title:   "Dil tercihin güncellendi",
			Body:    fmt.Sprintf("Hesabın dili %s olarak geldi. Buradan değiştirebilirsin.", code),
			Primary: fmt.Sprintf("%s diline geç", code),
			Close:   "Kapat",
		}
		if same {
			p.Primary = "Tamam"
		}
		return p
	}
	p := &Prompt{
		Code:    code,
		Title:   "Language updated",
		Body:    fmt.Sprintf("Your account language came as %s. You can change it here.", code),
		Primary: fmt.Sprintf("Switch to %s", code),
		Close:   "Dismiss",
	}
	if same {
		p.Primary = "OK"
	}
	return p
}

// Accept stores the claimed preference, marks the prompt answered, and
// navigates to the claimed locale when it differs from active.
func (s *Sync) Accept(active Locale, currentPath string) error {
	code, ok := s.acknowledge()
	if !ok {
		return nil
	}
	if target := code.Locale(); target != "" && target != active && s.nav != nil {
		if err := s.nav.Navigate(LocalizePath(currentPath, target), target); err != nil {
			return fmt.Errorf("switching locale to %s: %w", target, err)
		}
	}
	return nil
}

// Dismiss stores the claimed preference and marks the prompt answered
// without switching locale.
func (s *Sync) Dismiss() error {
	s.acknowledge()
	return nil
}

func (s *Sync) acknowledge() (LanguageCode, bool) {
	s.state = Hidden
	code, key, ok := s.claimed()
	if !ok {
		return "", false
	}
	if s.storage != nil {
		if err := s.storage.SetItem(storage.KeyLanguageCode, string(code)); err != nil {
			s.log.Debug("Language preference write failed", "code", code, "error", err)
		}
		if err := s.storage.SetItem(key, "1"); err != nil {
			s.log.Debug("Language prompt acknowledgement write failed", "key", key, "error", err)
		}
	}
	return code, true
}

// StoredPreference returns the saved account language, if any.
func StoredPreference(s storage.Storage) (LanguageCode, bool) {
	if s == nil {
		return "", false
	}
	v, ok, err := s.GetItem(storage.KeyLanguageCode)
	if err != nil || !ok {
		return "", false
	}
	return ParseLanguageCode(v)
}

// SetPreference saves code as the account language. Unknown codes are
// ignored.
func SetPreference(s storage.Storage, code string) error {
	c, ok := ParseLanguageCode(code)
	if !ok || s == nil {
		return nil
	}
	return s.SetItem(storage.KeyLanguageCode, string(c))
}

// Active returns the CLI's active locale: override when set, else the
// stored UI locale, else the default.
func Active(s storage.Storage, override string) Locale {
	if override != "" {
		return ParseLocale(override)
	}
	if s != nil {
		if v, ok, err := s.GetItem(storage.KeyUILocale); err == nil && ok {
			return ParseLocale(v)
		}
	}
	return Default
}

// StoreNavigator switches locale by writing the UI locale key, the CLI's
// counterpart of moving to a prefixed URL.
type StoreNavigator struct {
	Storage storage.Storage
	// LastPath is the most recent destination.
	LastPath string
}

func (n *StoreNavigator) Navigate(path string, target Locale) error {
	n.LastPath = path
	return n.Storage.SetItem(storage.KeyUILocale, string(target))
}
