package domain

// PillarID identifies one of the three fixed sustainability pillars.
type PillarID string

const (
	PillarEnvironment PillarID = "env"
	PillarSocial      PillarID = "soc"
	PillarGovernance  PillarID = "gov"
)

// PillarIDs lists the pillars in their canonical order.
var PillarIDs = []PillarID{PillarEnvironment, PillarSocial, PillarGovernance}

// Category classifies a goal within its pillar.
type Category string

const (
	CategoryEnergy        Category = "energy"
	CategoryEmissions     Category = "emissions"
	CategoryWaste         Category = "waste"
	CategoryWater         Category = "water"
	CategoryBiodiversity  Category = "biodiversity"
	CategoryEnvironmental Category = "environmental"
	CategorySocial        Category = "social"
	CategoryGovernance    Category = "governance"
	CategoryCompliance    Category = "compliance"
	CategoryRegulatory    Category = "regulatory"
)

// CategoryLabels maps each category to its display label, in display order.
var CategoryLabels = []struct {
	Category Category
	Label    string
}{
	{CategoryEnergy, "Energy"},
	{CategoryEmissions, "Emissions"},
	{CategoryWaste, "Waste & Recycling"},
	{CategoryWater, "Water"},
	{CategoryBiodiversity, "Biodiversity"},
	{CategoryEnvironmental, "Environmental (Other)"},
	{CategorySocial, "Social"},
	{CategoryGovernance, "Governance"},
	{CategoryCompliance, "Compliance"},
	{CategoryRegulatory, "Regulatory"},
}

// ValidCategories is the canonical set of accepted category strings.
var ValidCategories = map[Category]bool{
	CategoryEnergy: true, CategoryEmissions: true, CategoryWaste: true,
	CategoryWater: true, CategoryBiodiversity: true, CategoryEnvironmental: true,
	CategorySocial: true, CategoryGovernance: true, CategoryCompliance: true,
	CategoryRegulatory: true,
}

// DefaultCategory returns the category a new goal in the pillar starts with.
func DefaultCategory(pillar PillarID) Category {
	switch pillar {
	case PillarEnvironment:
		return CategoryEnvironmental
	case PillarSocial:
		return CategorySocial
	default:
		return CategoryGovernance
	}
}

// Target statuses offered by the editor. TargetNotStarted is what every
// freshly created target carries; upstream data may supply other
// free-text statuses.
const (
	TargetNotStarted = "Not started"
	TargetInProgress = "In progress"
	TargetAchieved   = "Achieved"
)

// TargetStatuses lists the editor's statuses in progression order.
var TargetStatuses = []string{TargetNotStarted, TargetInProgress, TargetAchieved}

// TargetStatusFor derives a status from a progress percentage.
func TargetStatusFor(progress int) string {
	switch {
	case progress >= 100:
		return TargetAchieved
	case progress > 0:
		return TargetInProgress
	default:
		return TargetNotStarted
	}
}

// DefaultDueDate is used when upstream goal data omits a due date.
const DefaultDueDate = "2030-12-31"

// DateLayout is the ISO date format used for due dates.
const DateLayout = "2006-01-02"

// DefaultConfidence is the extraction confidence reported for every
// collection the extraction pipeline produces.
const DefaultConfidence = 0.85

// Label returns the display label of c, or c itself when it is not a
// known category.
func (c Category) Label() string {
	for _, l := range CategoryLabels {
		if l.Category == c {
			return l.Label
		}
	}
	return string(c)
}
