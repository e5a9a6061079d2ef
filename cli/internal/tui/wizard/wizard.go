// ABOUTME: Purchase wizard as a bubbletea model
// ABOUTME: Uses huh forms with a visual progress indicator for step navigation

package wizard

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/wusuleable-web/cli/internal/tui/icons"
	"github.com/markalston/wusuleable-web/cli/internal/tui/styles"
	"github.com/markalston/wusuleable-web/models"
)

// ErrCancelled is returned by Run when the user leaves the wizard.
var ErrCancelled = errors.New("purchase cancelled")

// Result is what the wizard collected: the create-customer payload and the
// draft to save once the customer exists.
type Result struct {
	Request models.CreateCustomerRequest
	Draft   models.PurchaseDraft
}

// Wizard manages the purchase flow as a bubbletea model
type Wizard struct {
	form      *huh.Form
	step      int
	width     int
	result    *Result
	cancelled bool
	err       error

	// Form field values
	customerType models.CustomerType
	companyName  string
	firstName    string
	lastName     string
	planCode     string
	billing      models.BillingPeriod
	products     []models.ProductCode
}

// Step names for progress indicator
var stepNames = []string{"Customer", "Details", "Plan"}

// New creates a wizard with the pricing page defaults.
func New() *Wizard {
	w := &Wizard{
		step:         1,
		customerType: models.CustomerB2B,
		planCode:     models.DefaultPlanCode,
		billing:      models.BillingMonthly,
		products:     []models.ProductCode{models.ProductAccessibilityWidget},
	}
	w.form = w.createStep1Form()
	return w
}

func (w *Wizard) createStep1Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.CustomerType]().
				Title("Customer type").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(
					huh.NewOption("Business (B2B)", models.CustomerB2B),
					huh.NewOption("Individual (B2C)", models.CustomerB2C),
				).
				Value(&w.customerType),
		).Title("Step 1: Customer").
			Description("Who is this purchase for?"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep2Form() *huh.Form {
	if w.customerType == models.CustomerB2B {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Company name").
					Placeholder("e.g., Acme Ltd.").
					Value(&w.companyName).
					Validate(required("Company name is required.")),
			).Title("Step 2: Details").
				Description("Company information"),
		).WithTheme(styles.FormTheme())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("First name").
				Value(&w.firstName).
				Validate(required("First name and last name are required.")),
			huh.NewInput().
				Title("Last name").
				Value(&w.lastName).
				Validate(required("First name and last name are required.")),
		).Title("Step 2: Details").
			Description("Your name"),
	).WithTheme(styles.FormTheme())
}

func (w *Wizard) createStep3Form() *huh.Form {
	var planOptions []huh.Option[string]
	for _, p := range models.PlanCodes {
		planOptions = append(planOptions, huh.NewOption(p, p))
	}

	var productOptions []huh.Option[models.ProductCode]
	for _, p := range models.Products {
		productOptions = append(productOptions, huh.NewOption(string(p), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Plan").
				Options(planOptions...).
				Value(&w.planCode),
			huh.NewSelect[models.BillingPeriod]().
				Title("Billing period").
				Options(
					huh.NewOption("Monthly", models.BillingMonthly),
					huh.NewOption("Yearly", models.BillingYearly),
				).
				Value(&w.billing),
			huh.NewMultiSelect[models.ProductCode]().
				Title("Products").
				Description("Space to toggle, Enter to confirm").
				Options(productOptions...).
				Value(&w.products).
				Validate(validateProducts),
		).Title("Step 3: Plan").
			Description("Choose a plan and products"),
	).WithTheme(styles.FormTheme())
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" || msg.String() == "ctrl+c" {
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}
	if w.form.State == huh.StateAborted {
		w.cancelled = true
		return w, tea.Quit
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	switch w.step {
	case 1:
		w.step = 2
		w.form = w.createStep2Form()
		return w, w.form.Init()

	case 2:
		w.step = 3
		w.form = w.createStep3Form()
		return w, w.form.Init()

	case 3:
		result, err := w.buildResult()
		if err != nil {
			w.err = err
		} else {
			w.result = result
		}
		return w, tea.Quit
	}

	return w, nil
}

// buildResult validates the collected values the same way the flag-driven
// purchase does.
func (w *Wizard) buildResult() (*Result, error) {
	req, err := models.NewCreateCustomerRequest(w.customerType, w.companyName, w.firstName, w.lastName,
		w.planCode, w.billing, w.products)
	if err != nil {
		return nil, err
	}
	return &Result{
		Request: req,
		Draft: models.PurchaseDraft{
			ProductCodes:  append([]models.ProductCode(nil), w.products...),
			PlanCode:      w.planCode,
			BillingPeriod: w.billing,
			CustomerType:  w.customerType,
		},
	}, nil
}

// View implements tea.Model
func (w *Wizard) View() string {
	if w.result != nil || w.cancelled || w.err != nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(w.renderProgress())
	sb.WriteString("\n\n")
	sb.WriteString(w.form.View())
	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := w.width - 1
	if width < 60 {
		width = 60
	}

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, name := range stepNames {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(stepNames)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	styledTitle := titleStyle.Render("Progress")
	topFillWidth := max(0, width-5-lipgloss.Width("Progress"))
	topBorder := "┌─ " + styledTitle + " " + strings.Repeat("─", topFillWidth) + "┐"

	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"

	progressLinePadded := "│  " + filledBar + emptyBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}

// Run shows the wizard full-screen and returns what it collected.
func Run() (*Result, error) {
	w := New()
	if _, err := tea.NewProgram(w, tea.WithAltScreen()).Run(); err != nil {
		return nil, err
	}
	if w.err != nil {
		return nil, w.err
	}
	if w.result == nil {
		return nil, ErrCancelled
	}
	return w.result, nil
}

func required(message string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

func validateProducts(p []models.ProductCode) error {
	if len(p) == 0 {
		return errors.New("Select at least one product.")
	}
	return nil
}
