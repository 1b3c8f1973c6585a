package onboarding

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/alexanderramin/onboarding/internal/domain"
)

// Company form field keys, matching the JSON names of domain.CompanyData.
const (
	FieldName         = "name"
	FieldWebsite      = "website"
	FieldContactName  = "contactName"
	FieldContactEmail = "contactEmail"
	FieldContactRole  = "contactRole"
)

var (
	websitePattern = regexp.MustCompile(`^(https?://)?(www\.)?[a-zA-Z0-9-]+\.[a-zA-Z]{2,}(\.[a-zA-Z]{2,})?`)
	emailPattern   = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// Upload step banner messages.
const (
	MsgNoStandards = "Please select at least one compliance standard before continuing."
	MsgNoFiles     = "Please upload at least one sustainability report or choose to skip file upload."
)

var (
	// ErrNoStandards is returned when no compliance standard is selected.
	ErrNoStandards = errors.New("no compliance standard selected")
	// ErrNoFiles is returned when processing is requested without uploads.
	ErrNoFiles = errors.New("no files uploaded")
)

// FieldErrors maps a form field key to its validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid company details: " + strings.Join(parts, "; ")
}

// ValidateField checks a single company field value and returns its
// message, or "" when the value is acceptable.
func ValidateField(field, value string) string {
	blank := strings.TrimSpace(value) == ""
	switch field {
	case FieldName:
		if blank {
			return "Company name is required"
		}
	case FieldWebsite:
		if blank {
			return "Company website is required"
		}
		if !websitePattern.MatchString(value) {
			return "Please enter a valid website URL"
		}
	case FieldContactName:
		if blank {
			return "Contact name is required"
		}
	case FieldContactEmail:
		if blank {
			return "Contact email is required"
		}
		if !emailPattern.MatchString(value) {
			return "Contact email is invalid"
		}
	}
	return ""
}

// ValidateCompany checks every required company field. It returns nil when
// the record may advance to the upload step.
func ValidateCompany(c domain.CompanyData) FieldErrors {
	fields := map[string]string{
		FieldName:         c.Name,
		FieldWebsite:      c.Website,
		FieldContactName:  c.ContactName,
		FieldContactEmail: c.ContactEmail,
	}
	errs := FieldErrors{}
	for field, value := range fields {
		if msg := ValidateField(field, value); msg != "" {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CheckUpload verifies the upload → extract guard. skip selects the
// standards-only path, which does not need files.
func CheckUpload(s State, skip bool) error {
	if !skip && len(s.UploadedFiles) == 0 {
		return ErrNoFiles
	}
	if len(s.SelectedStandards) == 0 {
		return ErrNoStandards
	}
	return nil
}

// uploadMessage maps a guard error to its banner text.
func uploadMessage(err error) string {
	switch {
	case errors.Is(err, ErrNoFiles):
		return MsgNoFiles
	case errors.Is(err, ErrNoStandards):
		return MsgNoStandards
	default:
		return err.Error()
	}
}
