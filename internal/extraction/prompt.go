package extraction

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/onboarding/internal/domain"
)

const promptTemplate = `Analyze the following text from a sustainability report and extract sustainability goals.
The organization is interested in compliance with: %s.

Assign every goal to one of these pillars:
1. Environment (id: env) - environmental sustainability goals
2. Social (id: soc) - social responsibility goals
3. Governance & Compliance (id: gov) - regulatory compliance and governance goals

For each goal provide:
- pillarId: the pillar id
- title: a short, clear title
- description: a detailed description
- category: one of %s
- due_date: the target date as YYYY-MM-DD (use the last day of the year when only a year is given)
- targets: the specific targets mentioned, as an array of strings

Respond with a JSON array only, using exactly these fields, for example:
[
  {
    "pillarId": "env",
    "title": "Reduce Carbon Emissions",
    "description": "Decrease scope 1 and 2 emissions by 30%% by 2030",
    "category": "emissions",
    "due_date": "2030-12-31",
    "targets": ["30%% reduction by 2030", "carbon neutrality by 2050"]
  }
]

Text to analyze:
%s`

// BuildPrompt renders the goal-extraction prompt for one document. The
// standards are named by display name; unknown ids are left out.
func BuildPrompt(text string, standards []string) string {
	return fmt.Sprintf(promptTemplate, standardNames(standards), categoryList(), text)
}

func standardNames(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := domain.StandardName(id); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

func categoryList() string {
	cats := make([]string, 0, len(domain.CategoryLabels))
	for _, c := range domain.CategoryLabels {
		cats = append(cats, string(c.Category))
	}
	return strings.Join(cats, ", ")
}
