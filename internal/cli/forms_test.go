package cli

import (
	"testing"

	"github.com/alexanderramin/onboarding/internal/domain"
	"github.com/alexanderramin/onboarding/internal/onboarding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePercent(t *testing.T) {
	for _, ok := range []string{"", "0", "55", " 100 "} {
		assert.NoError(t, validatePercent(ok), ok)
	}
	for _, bad := range []string{"-1", "101", "ten", "5.5"} {
		assert.Error(t, validatePercent(bad), bad)
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate("2030-12-31"))
	assert.Error(t, validateDate("31/12/2030"))
	assert.Error(t, validateDate(""))
}

func TestFieldValidator(t *testing.T) {
	v := fieldValidator(onboarding.FieldContactEmail)
	assert.EqualError(t, v(""), "Contact email is required")
	assert.EqualError(t, v("nope"), "Contact email is invalid")
	assert.NoError(t, v("jo@acme.example"))
}

func TestCompanyValues_PatchTrims(t *testing.T) {
	v := &companyValues{Name: "  Acme ", Website: "acme.io", ContactName: "Jo", ContactEmail: "jo@acme.io"}
	got := domain.CompanyData{}.Apply(v.patch())
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "", got.ContactRole)
}

func TestGoalValues_Patch(t *testing.T) {
	g := domain.Goal{ID: "g1", Title: "Old", Category: domain.CategoryWater, Progress: 10, DueDate: "2030-12-31"}
	v := goalValuesFrom(g)
	assert.Equal(t, "10", v.Progress)

	v.Title = " New title "
	v.Progress = "40"
	p := v.patch()
	require.NotNil(t, p.Title)
	assert.Equal(t, "New title", *p.Title)
	assert.Equal(t, 40, *p.Progress)
	assert.Equal(t, domain.CategoryWater, *p.Category)
}

func TestTargetValues_PatchParsesProgress(t *testing.T) {
	v := targetValuesFrom(domain.NewTarget("Audit"))
	v.Progress = "bad"
	p := v.patch()
	assert.Equal(t, 0, *p.Progress)
	assert.Equal(t, domain.TargetNotStarted, *p.Status)
}

func TestTargetEditor_ProgressOnlyEditAchieves(t *testing.T) {
	c := domain.NewGoalCollection(domain.DefaultConfidence)
	c.Pillars[0].Goals = []domain.Goal{{ID: "env-1", Title: "Energy", Targets: []domain.Target{domain.NewTarget("Audit")}}}

	v := targetValuesFrom(c.Pillars[0].Goals[0].Targets[0])
	v.Progress = "100"
	out, err := c.UpdateTarget(domain.PillarEnvironment, "env-1", 0, v.patch())
	require.NoError(t, err)
	assert.Equal(t, domain.TargetAchieved, out.Pillars[0].Goals[0].Targets[0].Status)
}

func TestCategoryOptions_KeepsUnknownCurrent(t *testing.T) {
	assert.Len(t, categoryOptions(domain.CategoryEnergy), len(domain.CategoryLabels))
	assert.Len(t, categoryOptions("carbon"), len(domain.CategoryLabels)+1)
}

func TestStatusOptions_KeepsFreeTextStatus(t *testing.T) {
	assert.Len(t, statusOptions(domain.TargetInProgress), len(domain.TargetStatuses))
	assert.Len(t, statusOptions("Blocked"), len(domain.TargetStatuses)+1)
}
