package dto

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/mtlprog/internfinder/internal/domain"
)

// SubmitRequest represents the JSON body for POST /submit. Skills default to
// the session's selection when omitted.
type SubmitRequest struct {
	Education          string       `json:"education"`
	Skills             []string     `json:"skills,omitempty"`
	LocationPreference string       `json:"location_preference"`
	MinStipend         StipendValue `json:"min_stipend"`
}

// StipendValue is min_stipend as sent by the client: a number such as 10000
// or a display string such as "₹10,000".
type StipendValue string

// UnmarshalJSON accepts a JSON number, string or null.
func (v *StipendValue) UnmarshalJSON(data []byte) error {
	res := gjson.ParseBytes(data)
	switch res.Type {
	case gjson.Number:
		*v = StipendValue(res.Raw)
	case gjson.String:
		*v = StipendValue(res.Str)
	case gjson.Null:
		*v = ""
	default:
		return fmt.Errorf("min_stipend must be a number or a string, got %s", res.Raw)
	}
	return nil
}

// FormInput converts the request, using selected when no skills were sent.
func (r SubmitRequest) FormInput(selected []string) domain.FormInput {
	skills := r.Skills
	if skills == nil {
		skills = selected
	}
	return domain.FormInput{
		Education:          r.Education,
		Skills:             skills,
		LocationPreference: r.LocationPreference,
		Stipend:            string(r.MinStipend),
	}
}

// ApplyRequest represents the JSON body for POST /apply.
type ApplyRequest struct {
	Title   string `json:"title"`
	Company string `json:"company"`
}
