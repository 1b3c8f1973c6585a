// Package extraction turns uploaded reports and selected standards into a
// normalized goal collection.
package extraction

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// RawTarget is a target as produced upstream: either a bare string or an
// object with a name.
type RawTarget struct {
	Name     string `json:"name"`
	Status   string `json:"status,omitempty"`
	Progress int    `json:"progress,omitempty"`
}

func (t *RawTarget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &t.Name)
	}
	type plain RawTarget
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	*t = RawTarget(p)
	return nil
}

// RawGoal is one goal record as returned by the AI endpoint or the
// standards table, before normalization.
type RawGoal struct {
	PillarID    domain.PillarID `json:"pillarId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	DueDate     string          `json:"due_date,omitempty"`
	Targets     []RawTarget     `json:"targets"`
}

// ValidateRawGoal checks one AI record: a title, a targets array and, when
// present, a YYYY-MM-DD due date.
func ValidateRawGoal(g RawGoal) error {
	var errs []error
	if strings.TrimSpace(g.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if g.Targets == nil {
		errs = append(errs, errors.New("targets array is required"))
	}
	if g.DueDate != "" {
		if _, err := time.Parse(domain.DateLayout, g.DueDate); err != nil {
			errs = append(errs, fmt.Errorf("due_date %q is not YYYY-MM-DD", g.DueDate))
		}
	}
	return errors.Join(errs...)
}
