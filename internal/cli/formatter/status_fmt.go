package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// StatusView is the data shown by the status command.
type StatusView struct {
	Complete bool
	Latest   *domain.Completion
	Draft    *domain.Draft
	Now      time.Time
}

// FormatStatus renders the local onboarding status.
func FormatStatus(v StatusView) string {
	var b strings.Builder
	b.WriteString(Header("Onboarding status"))
	b.WriteString("\n")

	state := StyleYellow.Render("○ Not completed")
	if v.Complete {
		state = StyleGreen.Render("✔ Completed")
	}
	pairs := [][2]string{{"Status", state}}

	if c := v.Latest; c != nil {
		pairs = append(pairs,
			[2]string{"Company", c.Company.Name},
			[2]string{"User", fmt.Sprintf("%s (%s)", c.Email, c.UserID)},
			[2]string{"Saved", HumanTimestamp(c.CompletedAt, v.Now)},
			[2]string{"Goals", GoalSummary(c.Goals)},
		)
		if len(c.Standards) > 0 {
			names := make([]string, len(c.Standards))
			for i, id := range c.Standards {
				names[i] = domain.CoalesceStr(domain.StandardName(id), id)
			}
			pairs = append(pairs, [2]string{"Standards", strings.Join(names, ", ")})
		}
	}
	if d := v.Draft; d != nil {
		pairs = append(pairs, [2]string{"Draft", fmt.Sprintf("step %d of 4, saved %s", d.Step+1, HumanTimestamp(d.UpdatedAt, v.Now))})
	}
	b.WriteString(KeyValue(pairs))
	return b.String()
}

// FormatStandards renders the standards table. templates maps a standard
// id to the title of the goal it contributes when uploads are skipped.
func FormatStandards(templates map[string]string) string {
	rows := make([][]string, len(domain.Standards))
	for i, s := range domain.Standards {
		tmpl := templates[s.ID]
		if tmpl == "" {
			tmpl = Dim("none")
		}
		rows[i] = []string{s.ID, s.Name, tmpl}
	}
	return RenderTable([]string{"ID", "STANDARD", "TEMPLATE GOAL"}, rows)
}
