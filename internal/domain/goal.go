package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

var (
	ErrPillarNotFound = errors.New("pillar not found")
	ErrGoalNotFound   = errors.New("goal not found")
	ErrTargetNotFound = errors.New("target not found")
)

// Target is a measurable sub-commitment under a goal.
type Target struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

// NewTarget returns an unstarted target with the given name.
func NewTarget(name string) Target {
	return Target{Name: name, Status: TargetNotStarted, Progress: 0}
}

// TargetPatch carries a partial target update; nil fields are left untouched.
type TargetPatch struct {
	Name     *string
	Status   *string
	Progress *int
}

// apply merges p into t. When only the progress moves and the status is
// one of TargetStatuses, the status follows the progress; a custom status
// or an explicitly chosen one is kept.
func (t Target) apply(p TargetPatch) Target {
	status := StrFromPtrWithDefault(t.Status, p.Status)
	progress := ClampProgress(IntFromPtrWithDefault(t.Progress, p.Progress))
	if progress != t.Progress && status == t.Status && slices.Contains(TargetStatuses, status) {
		status = TargetStatusFor(progress)
	}
	t.Name = StrFromPtrWithDefault(t.Name, p.Name)
	t.Status = status
	t.Progress = progress
	return t
}

// Goal is a sustainability objective under a pillar.
type Goal struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Progress    int      `json:"progress"`
	DueDate     string   `json:"due_date"`
	Targets     []Target `json:"targets"`
}

// GoalPatch carries a partial goal update; nil fields are left untouched.
type GoalPatch struct {
	Title       *string
	Description *string
	Category    *Category
	Progress    *int
	DueDate     *string
}

func (g Goal) apply(p GoalPatch) Goal {
	g.Title = StrFromPtrWithDefault(g.Title, p.Title)
	g.Description = StrFromPtrWithDefault(g.Description, p.Description)
	if p.Category != nil {
		g.Category = *p.Category
	}
	g.Progress = ClampProgress(IntFromPtrWithDefault(g.Progress, p.Progress))
	g.DueDate = StrFromPtrWithDefault(g.DueDate, p.DueDate)
	return g
}

func (g Goal) clone() Goal {
	targets := make([]Target, len(g.Targets))
	copy(targets, g.Targets)
	g.Targets = targets
	return g
}

// GoalID builds a goal identifier of the form <pillar>-goal-<millis>[-<index>].
// A negative index omits the suffix.
func GoalID(pillar PillarID, at time.Time, index int) string {
	if index < 0 {
		return fmt.Sprintf("%s-goal-%d", pillar, at.UnixMilli())
	}
	return fmt.Sprintf("%s-goal-%d-%d", pillar, at.UnixMilli(), index)
}

// Pillar is one of the three top-level sustainability categories.
type Pillar struct {
	ID          PillarID `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Goals       []Goal   `json:"goals"`
}

// GoalCollection is the full set of goals produced by one extraction and
// edited on the review step. Methods never modify the receiver: every
// edit returns a fresh deep copy.
type GoalCollection struct {
	Confidence float64  `json:"confidence"`
	Pillars    []Pillar `json:"pillars"`
}

// NewGoalCollection returns a collection with the three fixed pillars and
// no goals.
func NewGoalCollection(confidence float64) *GoalCollection {
	return &GoalCollection{
		Confidence: confidence,
		Pillars: []Pillar{
			{ID: PillarEnvironment, Name: "Environment", Description: "Environmental sustainability goals", Goals: []Goal{}},
			{ID: PillarSocial, Name: "Social", Description: "Social responsibility goals", Goals: []Goal{}},
			{ID: PillarGovernance, Name: "Governance & Compliance", Description: "Regulatory compliance and governance goals", Goals: []Goal{}},
		},
	}
}

// Clone returns a deep copy sharing no slices with c.
func (c *GoalCollection) Clone() *GoalCollection {
	if c == nil {
		return nil
	}
	out := &GoalCollection{
		Confidence: c.Confidence,
		Pillars:    make([]Pillar, len(c.Pillars)),
	}
	for i, p := range c.Pillars {
		goals := make([]Goal, len(p.Goals))
		for j, g := range p.Goals {
			goals[j] = g.clone()
		}
		p.Goals = goals
		out.Pillars[i] = p
	}
	return out
}

// Pillar returns the pillar with the given id.
func (c *GoalCollection) Pillar(id PillarID) (Pillar, bool) {
	if i := c.pillarIndex(id); i >= 0 {
		return c.Pillars[i], true
	}
	return Pillar{}, false
}

// TotalGoals counts goals across all pillars.
func (c *GoalCollection) TotalGoals() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, p := range c.Pillars {
		n += len(p.Goals)
	}
	return n
}

// TotalTargets counts targets across all goals.
func (c *GoalCollection) TotalTargets() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, p := range c.Pillars {
		for _, g := range p.Goals {
			n += len(g.Targets)
		}
	}
	return n
}

// Validate checks the structural invariants: all three pillars present in
// order and every progress value within [0, 100].
func (c *GoalCollection) Validate() error {
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("confidence %v out of range", c.Confidence)
	}
	if len(c.Pillars) != len(PillarIDs) {
		return fmt.Errorf("expected %d pillars, got %d", len(PillarIDs), len(c.Pillars))
	}
	for i, id := range PillarIDs {
		if c.Pillars[i].ID != id {
			return fmt.Errorf("pillar %d: expected %q, got %q", i, id, c.Pillars[i].ID)
		}
		for _, g := range c.Pillars[i].Goals {
			if g.Progress < 0 || g.Progress > 100 {
				return fmt.Errorf("goal %s: progress %d out of range", g.ID, g.Progress)
			}
			for j, t := range g.Targets {
				if t.Progress < 0 || t.Progress > 100 {
					return fmt.Errorf("goal %s target %d: progress %d out of range", g.ID, j, t.Progress)
				}
			}
		}
	}
	return nil
}

// AppendGoal returns a copy of c with g appended to the pillar.
func (c *GoalCollection) AppendGoal(pillarID PillarID, g Goal) (*GoalCollection, error) {
	return c.edit(pillarID, func(p *Pillar) error {
		p.Goals = append(p.Goals, g.clone())
		return nil
	})
}

// AddGoal appends a blank goal with the given id, due today.
func (c *GoalCollection) AddGoal(pillarID PillarID, id string, today time.Time) (*GoalCollection, error) {
	return c.AppendGoal(pillarID, Goal{
		ID:       id,
		Title:    "New Goal",
		Category: DefaultCategory(pillarID),
		DueDate:  today.Format(DateLayout),
		Targets:  []Target{},
	})
}

// UpdateGoal merges p into the matching goal.
func (c *GoalCollection) UpdateGoal(pillarID PillarID, goalID string, p GoalPatch) (*GoalCollection, error) {
	return c.editGoal(pillarID, goalID, func(g *Goal) error {
		*g = g.apply(p)
		return nil
	})
}

// AddTarget appends an empty, unstarted target to the goal.
func (c *GoalCollection) AddTarget(pillarID PillarID, goalID string) (*GoalCollection, error) {
	return c.editGoal(pillarID, goalID, func(g *Goal) error {
		g.Targets = append(g.Targets, NewTarget(""))
		return nil
	})
}

// UpdateTarget merges p into the target at index.
func (c *GoalCollection) UpdateTarget(pillarID PillarID, goalID string, index int, p TargetPatch) (*GoalCollection, error) {
	return c.editGoal(pillarID, goalID, func(g *Goal) error {
		if index < 0 || index >= len(g.Targets) {
			return fmt.Errorf("target %d of goal %s: %w", index, goalID, ErrTargetNotFound)
		}
		g.Targets[index] = g.Targets[index].apply(p)
		return nil
	})
}

// RemoveTarget deletes the target at index, shifting later targets down.
func (c *GoalCollection) RemoveTarget(pillarID PillarID, goalID string, index int) (*GoalCollection, error) {
	return c.editGoal(pillarID, goalID, func(g *Goal) error {
		if index < 0 || index >= len(g.Targets) {
			return fmt.Errorf("target %d of goal %s: %w", index, goalID, ErrTargetNotFound)
		}
		g.Targets = append(g.Targets[:index], g.Targets[index+1:]...)
		return nil
	})
}

// RemoveGoal deletes the goal from its pillar.
func (c *GoalCollection) RemoveGoal(pillarID PillarID, goalID string) (*GoalCollection, error) {
	return c.edit(pillarID, func(p *Pillar) error {
		for i := range p.Goals {
			if p.Goals[i].ID == goalID {
				p.Goals = append(p.Goals[:i], p.Goals[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("goal %s: %w", goalID, ErrGoalNotFound)
	})
}

func (c *GoalCollection) pillarIndex(id PillarID) int {
	if c == nil {
		return -1
	}
	for i := range c.Pillars {
		if c.Pillars[i].ID == id {
			return i
		}
	}
	return -1
}

// edit clones c, applies fn to the pillar in the clone and returns the clone.
// On error c itself is returned unchanged.
func (c *GoalCollection) edit(pillarID PillarID, fn func(p *Pillar) error) (*GoalCollection, error) {
	i := c.pillarIndex(pillarID)
	if i < 0 {
		return c, fmt.Errorf("pillar %q: %w", pillarID, ErrPillarNotFound)
	}
	out := c.Clone()
	if err := fn(&out.Pillars[i]); err != nil {
		return c, err
	}
	return out, nil
}

func (c *GoalCollection) editGoal(pillarID PillarID, goalID string, fn func(g *Goal) error) (*GoalCollection, error) {
	return c.edit(pillarID, func(p *Pillar) error {
		for i := range p.Goals {
			if p.Goals[i].ID == goalID {
				return fn(&p.Goals[i])
			}
		}
		return fmt.Errorf("goal %s: %w", goalID, ErrGoalNotFound)
	})
}
