package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// GoalSummary renders the pillar, goal and target counts of c.
func GoalSummary(c *domain.GoalCollection) string {
	pillars := 0
	if c != nil {
		pillars = len(c.Pillars)
	}
	return fmt.Sprintf("%d pillars · %d goals · %d targets", pillars, c.TotalGoals(), c.TotalTargets())
}

// RenderGoals lists every pillar with its goals and their targets.
func RenderGoals(c *domain.GoalCollection) string {
	if c == nil {
		return Dim("No goals.")
	}
	var b strings.Builder
	for i, p := range c.Pillars {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(PillarStyle(p.ID).Bold(true).Render(p.Name))
		b.WriteString(Dim(fmt.Sprintf("  (%d goals)", len(p.Goals))))
		b.WriteString("\n")
		if len(p.Goals) == 0 {
			b.WriteString("  " + Dim("No goals yet.") + "\n")
		}
		for _, g := range p.Goals {
			b.WriteString("  " + GoalLine(g) + "\n")
			for _, t := range g.Targets {
				b.WriteString("      " + TargetLine(t) + "\n")
			}
		}
	}
	return b.String()
}

// GoalLine renders one goal: title, category, due date and progress.
func GoalLine(g domain.Goal) string {
	title := g.Title
	if title == "" {
		title = Dim("(untitled)")
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		Bold(title),
		StylePurple.Render(g.Category.Label()),
		Dim("due "+g.DueDate),
		RenderProgress(g.Progress, 10))
}

// TargetLine renders one target with its status and progress.
func TargetLine(t domain.Target) string {
	name := t.Name
	if name == "" {
		name = Dim("(unnamed target)")
	}
	return fmt.Sprintf("• %s  %s  %s", name, TargetStatusPill(t.Status), Dim(fmt.Sprintf("%d%%", t.Progress)))
}
