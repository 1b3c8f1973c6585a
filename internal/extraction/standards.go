package extraction

import "github.com/alexanderramin/onboarding/internal/domain"

// standardGoals maps each compliance standard to the goal it implies when
// no report is analysed. Order is the emission order.
var standardGoals = []struct {
	standard string
	goal     RawGoal
}{
	{"eu-taxonomy", RawGoal{
		PillarID:    domain.PillarEnvironment,
		Title:       "EU Taxonomy Climate Change Mitigation",
		Description: "Ensure activities substantially contribute to climate change mitigation according to EU Taxonomy criteria",
		Category:    string(domain.CategoryEmissions),
		DueDate:     "2025-12-31",
		Targets:     []RawTarget{{Name: "Compliance with technical screening criteria for climate change mitigation"}},
	}},
	{"eu-code-of-conduct", RawGoal{
		PillarID:    domain.PillarEnvironment,
		Title:       "Data Center Energy Efficiency",
		Description: "Improve data center energy efficiency in accordance with the EU Code of Conduct",
		Category:    string(domain.CategoryEnergy),
		DueDate:     "2026-12-31",
		Targets:     []RawTarget{{Name: "Reduce PUE to below 1.5"}},
	}},
	{"eed", RawGoal{
		PillarID:    domain.PillarEnvironment,
		Title:       "Energy Efficiency Directive Compliance",
		Description: "Implement measures to comply with Energy Efficiency Directive requirements",
		Category:    string(domain.CategoryEnergy),
		DueDate:     "2025-12-31",
		Targets:     []RawTarget{{Name: "Complete energy audit every 4 years"}},
	}},
	{"iso-27001", RawGoal{
		PillarID:    domain.PillarGovernance,
		Title:       "ISO 27001 Information Security",
		Description: "Maintain ISO 27001 certification for information security management",
		Category:    string(domain.CategoryCompliance),
		DueDate:     "2024-12-31",
		Targets:     []RawTarget{{Name: "Annual ISO 27001 compliance audit"}},
	}},
	{"iso-14001", RawGoal{
		PillarID:    domain.PillarEnvironment,
		Title:       "ISO 14001 Environmental Management",
		Description: "Implement and maintain environmental management system in accordance with ISO 14001",
		Category:    string(domain.CategoryEnvironmental),
		DueDate:     "2024-12-31",
		Targets:     []RawTarget{{Name: "Annual ISO 14001 certification review"}},
	}},
	{"iso-9001", RawGoal{
		PillarID:    domain.PillarGovernance,
		Title:       "ISO 9001 Quality Management",
		Description: "Implement and maintain quality management system in accordance with ISO 9001",
		Category:    string(domain.CategoryGovernance),
		DueDate:     "2024-12-31",
		Targets:     []RawTarget{{Name: "Annual ISO 9001 certification review"}},
	}},
}

// StandardsGoals returns the goals implied by the selected standards, in
// table order. Unknown ids contribute nothing.
func StandardsGoals(selected []string) []RawGoal {
	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		chosen[id] = true
	}
	var out []RawGoal
	for _, sg := range standardGoals {
		if chosen[sg.standard] {
			g := sg.goal
			g.Targets = append([]RawTarget(nil), sg.goal.Targets...)
			out = append(out, g)
		}
	}
	return out
}
