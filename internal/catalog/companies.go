package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/mtlprog/internfinder/internal/static"
)

// CompanyDirectory resolves company display names to careers pages.
type CompanyDirectory struct {
	urls     map[string]string
	fallback string
}

// ParseCompanyDirectory decodes a name to URL document. Unmapped companies
// resolve to fallback.
func ParseCompanyDirectory(data []byte, fallback string) (*CompanyDirectory, error) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse company directory: %w", err)
	}

	urls := make(map[string]string, len(raw))
	for name, url := range raw {
		urls[Normalize(name)] = url
	}
	return &CompanyDirectory{urls: urls, fallback: fallback}, nil
}

// Resolve returns the careers URL for company and whether it was mapped.
func (d *CompanyDirectory) Resolve(company string) (string, bool) {
	if url, ok := d.urls[Normalize(company)]; ok {
		return url, true
	}
	return d.fallback, false
}

// Fallback returns the URL used for unmapped companies.
func (d *CompanyDirectory) Fallback() string {
	return d.fallback
}

// Len returns the number of mapped companies.
func (d *CompanyDirectory) Len() int {
	return len(d.urls)
}

// DefaultCompanyDirectory returns the embedded directory with the given fallback.
func DefaultCompanyDirectory(fallback string) *CompanyDirectory {
	d, err := ParseCompanyDirectory(static.CompaniesJSON, fallback)
	if err != nil {
		panic(err)
	}
	return d
}
