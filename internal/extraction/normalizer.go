package extraction

import (
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// Normalizer converts raw records into domain goals. It is used for one
// extraction batch; ids stay unique across every Append in the batch.
type Normalizer struct {
	now   time.Time
	index int
}

// NewNormalizer starts a batch stamped with now.
func NewNormalizer(now time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// NewCollection returns the empty three-pillar collection.
func NewCollection() *domain.GoalCollection {
	return domain.NewGoalCollection(domain.DefaultConfidence)
}

// Append returns a copy of c with raws appended in order. Records naming an
// unknown pillar are dropped; the count of dropped records is returned.
func (n *Normalizer) Append(c *domain.GoalCollection, raws []RawGoal) (*domain.GoalCollection, int) {
	out := c.Clone()
	dropped := 0
	for _, raw := range raws {
		pi := -1
		for i := range out.Pillars {
			if out.Pillars[i].ID == raw.PillarID {
				pi = i
				break
			}
		}
		if pi < 0 {
			dropped++
			continue
		}
		out.Pillars[pi].Goals = append(out.Pillars[pi].Goals, n.goal(raw))
	}
	return out, dropped
}

func (n *Normalizer) goal(raw RawGoal) domain.Goal {
	category := domain.Category(raw.Category)
	if !domain.ValidCategories[category] {
		category = domain.DefaultCategory(raw.PillarID)
	}
	targets := make([]domain.Target, 0, len(raw.Targets))
	for _, t := range raw.Targets {
		targets = append(targets, domain.NewTarget(t.Name))
	}
	g := domain.Goal{
		ID:          domain.GoalID(raw.PillarID, n.now, n.index),
		Title:       raw.Title,
		Description: raw.Description,
		Category:    category,
		Progress:    0,
		DueDate:     domain.CoalesceStr(raw.DueDate, domain.DefaultDueDate),
		Targets:     targets,
	}
	n.index++
	return g
}

// FromStandards builds a fresh collection holding the goals implied by the
// selected standards.
func (n *Normalizer) FromStandards(selected []string) *domain.GoalCollection {
	c, _ := n.Append(NewCollection(), StandardsGoals(selected))
	return c
}
