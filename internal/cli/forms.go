package cli

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/onboarding/internal/cli/formatter"
	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// onboardHuhTheme styles huh forms with the formatter palette: accented
// while focused, dimmed once blurred.
func onboardHuhTheme() *huh.Theme {
	t := huh.ThemeBase()
	accent := formatter.StyleHeader.UnsetBold()

	f := &t.Focused
	f.Title = formatter.StyleHeader
	f.Description = formatter.StyleDim
	f.SelectSelector = accent
	f.SelectedOption = formatter.StyleGreen
	f.UnselectedOption = formatter.StyleFg
	f.FocusedButton = formatter.StyleFg.Background(formatter.ColorHeader).Padding(0, 1)
	f.BlurredButton = formatter.StyleDim.Padding(0, 1)
	f.TextInput.Cursor = accent
	f.TextInput.Prompt = accent
	f.TextInput.Text = formatter.StyleFg
	f.TextInput.Placeholder = formatter.StyleDim
	f.ErrorMessage = formatter.StyleRed
	f.ErrorIndicator = formatter.StyleRed

	b := &t.Blurred
	for _, st := range []*lipgloss.Style{
		&b.Title, &b.SelectSelector, &b.SelectedOption, &b.UnselectedOption,
		&b.TextInput.Prompt, &b.TextInput.Text,
	} {
		*st = formatter.StyleDim
	}
	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(onboardHuhTheme()).WithShowHelp(false)
}

// companyValues backs the company form fields.
type companyValues struct {
	Name, Website, ContactName, ContactEmail, ContactRole string
}

func companyValuesFrom(c domain.CompanyData) *companyValues {
	return &companyValues{
		Name:         c.Name,
		Website:      c.Website,
		ContactName:  c.ContactName,
		ContactEmail: c.ContactEmail,
		ContactRole:  c.ContactRole,
	}
}

func (v *companyValues) patch() domain.CompanyPatch {
	trim := func(s string) *string {
		s = strings.TrimSpace(s)
		return &s
	}
	return domain.CompanyPatch{
		Name:         trim(v.Name),
		Website:      trim(v.Website),
		ContactName:  trim(v.ContactName),
		ContactEmail: trim(v.ContactEmail),
		ContactRole:  trim(v.ContactRole),
	}
}

// fieldValidator adapts the company field rules to huh's validator shape.
func fieldValidator(field string) func(string) error {
	return func(s string) error {
		if msg := onboarding.ValidateField(field, s); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return nil
	}
}

func companyForm(v *companyValues) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Company Name").Placeholder("Acme Data Centers").
				Value(&v.Name).Validate(fieldValidator(onboarding.FieldName)),
			huh.NewInput().Title("Company Website").Placeholder("https://example.com").
				Value(&v.Website).Validate(fieldValidator(onboarding.FieldWebsite)),
			huh.NewInput().Title("Contact Name").
				Value(&v.ContactName).Validate(fieldValidator(onboarding.FieldContactName)),
			huh.NewInput().Title("Contact Email").Placeholder("name@example.com").
				Value(&v.ContactEmail).Validate(fieldValidator(onboarding.FieldContactEmail)),
			huh.NewInput().Title("Contact Role").Placeholder("Optional").
				Value(&v.ContactRole),
		).Title("Company Details").Description("Tell us who you are."),
	)
}

// goalValues backs the goal editor.
type goalValues struct {
	Title, Description string
	Category           domain.Category
	Progress, DueDate  string
}

func goalValuesFrom(g domain.Goal) *goalValues {
	return &goalValues{
		Title:       g.Title,
		Description: g.Description,
		Category:    g.Category,
		Progress:    strconv.Itoa(g.Progress),
		DueDate:     g.DueDate,
	}
}

func (v *goalValues) patch() domain.GoalPatch {
	title := strings.TrimSpace(v.Title)
	desc := strings.TrimSpace(v.Description)
	cat := v.Category
	progress := parsePercent(v.Progress)
	due := strings.TrimSpace(v.DueDate)
	return domain.GoalPatch{
		Title:       &title,
		Description: &desc,
		Category:    &cat,
		Progress:    &progress,
		DueDate:     &due,
	}
}

func categoryOptions(current domain.Category) []huh.Option[domain.Category] {
	opts := make([]huh.Option[domain.Category], 0, len(domain.CategoryLabels)+1)
	for _, l := range domain.CategoryLabels {
		opts = append(opts, huh.NewOption(l.Label, l.Category))
	}
	if current != "" && !domain.ValidCategories[current] {
		opts = append(opts, huh.NewOption(string(current), current))
	}
	return opts
}

func goalForm(v *goalValues) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&v.Title).Validate(validateRequired("Title")),
			huh.NewText().Title("Description").Lines(3).Value(&v.Description),
			huh.NewSelect[domain.Category]().Title("Category").
				Options(categoryOptions(v.Category)...).Value(&v.Category),
			huh.NewInput().Title("Progress (%)").Value(&v.Progress).Validate(validatePercent),
			huh.NewInput().Title("Due Date (YYYY-MM-DD)").Value(&v.DueDate).Validate(validateDate),
		).Title("Edit Goal"),
	)
}

// targetValues backs the target editor.
type targetValues struct {
	Name, Status, Progress string
}

func targetValuesFrom(t domain.Target) *targetValues {
	return &targetValues{Name: t.Name, Status: t.Status, Progress: strconv.Itoa(t.Progress)}
}

func (v *targetValues) patch() domain.TargetPatch {
	name := strings.TrimSpace(v.Name)
	status := v.Status
	progress := parsePercent(v.Progress)
	return domain.TargetPatch{Name: &name, Status: &status, Progress: &progress}
}

func statusOptions(current string) []huh.Option[string] {
	statuses := slices.Clone(domain.TargetStatuses)
	if current != "" && !slices.Contains(statuses, current) {
		statuses = append(statuses, current)
	}
	return huh.NewOptions(statuses...)
}

func targetForm(v *targetValues) *huh.Form {
	return newForm(
		huh.NewGroup(
			huh.NewInput().Title("Target").Value(&v.Name).Validate(validateRequired("Target")),
			huh.NewSelect[string]().Title("Status").Options(statusOptions(v.Status)...).Value(&v.Status),
			huh.NewInput().Title("Progress (%)").Value(&v.Progress).Validate(validatePercent),
		).Title("Edit Target"),
	)
}

func validateRequired(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

// validatePercent accepts empty or an integer from 0 to 100.
func validatePercent(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("enter a number from 0 to 100")
	}
	return nil
}

// parsePercent reads a validated percentage; anything unparsable is 0.
func parsePercent(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func validateDate(s string) error {
	if _, err := time.Parse(domain.DateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
