// ABOUTME: Language prompt shown when the account language differs from the UI
// ABOUTME: Offers the localized switch and dismiss choices as a huh select

package menu

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/markalston/wusuleable-web/cli/internal/locale"
	"github.com/markalston/wusuleable-web/cli/internal/tui/styles"
)

// Choice is the user's answer to the prompt.
type Choice int

const (
	ChoiceAccept Choice = iota
	ChoiceDismiss
)

type option struct {
	label string
	value Choice
}

// Menu renders a locale.Prompt as a two-option select.
type Menu struct {
	title       string
	description string
	options     []option
	selected    Choice
}

// New builds the menu from localized prompt copy.
func New(p *locale.Prompt) *Menu {
	return &Menu{
		title:       p.Title,
		description: p.Body,
		options: []option{
			{label: p.Primary, value: ChoiceAccept},
			{label: p.Close, value: ChoiceDismiss},
		},
		selected: ChoiceAccept,
	}
}

// Run displays the menu and returns the selected choice. Aborting the form
// counts as dismissing.
func (m *Menu) Run() (Choice, error) {
	var options []huh.Option[Choice]
	for _, opt := range m.options {
		options = append(options, huh.NewOption(opt.label, opt.value))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Choice]().
				Title(m.title).
				Description(m.description).
				Options(options...).
				Value(&m.selected),
		),
	).WithTheme(styles.FormTheme())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ChoiceDismiss, nil
		}
		return ChoiceDismiss, err
	}

	return m.selected, nil
}

// String returns the string representation of a Choice
func (c Choice) String() string {
	switch c {
	case ChoiceAccept:
		return "accept"
	case ChoiceDismiss:
		return "dismiss"
	default:
		return "unknown"
	}
}
