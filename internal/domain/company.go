package domain

import (
	"path/filepath"
	"strings"
)

// CompanyData is the company and primary-contact record collected on the
// first wizard step.
type CompanyData struct {
	Name         string `json:"name"`
	Website      string `json:"website"`
	ContactEmail string `json:"contactEmail"`
	ContactName  string `json:"contactName"`
	ContactRole  string `json:"contactRole"`
}

// CompanyPatch carries a partial update; nil fields are left untouched.
type CompanyPatch struct {
	Name         *string
	Website      *string
	ContactEmail *string
	ContactName  *string
	ContactRole  *string
}

// Apply returns c with every non-nil field of p merged in.
func (c CompanyData) Apply(p CompanyPatch) CompanyData {
	c.Name = StrFromPtrWithDefault(c.Name, p.Name)
	c.Website = StrFromPtrWithDefault(c.Website, p.Website)
	c.ContactEmail = StrFromPtrWithDefault(c.ContactEmail, p.ContactEmail)
	c.ContactName = StrFromPtrWithDefault(c.ContactName, p.ContactName)
	c.ContactRole = StrFromPtrWithDefault(c.ContactRole, p.ContactRole)
	return c
}

// UploadedFile is a report queued for extraction. Data, when set, holds the
// file content in memory; otherwise the content is read from Path.
type UploadedFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Path string `json:"path"`
	Data []byte `json:"-"`
}

// SameAs reports whether two uploads are considered the same file.
func (f UploadedFile) SameAs(other UploadedFile) bool {
	return f.Name == other.Name && f.Size == other.Size
}

// IsPDF reports whether the file name carries a .pdf extension.
func (f UploadedFile) IsPDF() bool {
	return strings.EqualFold(filepath.Ext(f.Name), ".pdf")
}

// ComplianceStandard is a selectable regulatory or certification standard.
type ComplianceStandard struct {
	ID   string
	Name string
}

// Standards lists the compliance standards offered on the upload step.
var Standards = []ComplianceStandard{
	{ID: "eu-taxonomy", Name: "EU Taxonomy"},
	{ID: "eu-code-of-conduct", Name: "EU Code of Conduct"},
	{ID: "eed", Name: "EED (Energy Efficiency Directive)"},
	{ID: "iso-27001", Name: "ISO 27001"},
	{ID: "iso-14001", Name: "ISO 14001"},
	{ID: "iso-9001", Name: "ISO 9001"},
}

// StandardName returns the display name for a standard id, or "" if unknown.
func StandardName(id string) string {
	for _, s := range Standards {
		if s.ID == id {
			return s.Name
		}
	}
	return ""
}
