package domain

// FormPayload is the JSON body sent to the recommendation endpoint.
// Field order matters: validation reports the first failing field in
// declaration order, so education is checked before skills, then location.
type FormPayload struct {
	Education          string   `json:"education" validate:"required"`
	Skills             []string `json:"skills" validate:"required,min=1"`
	LocationPreference string   `json:"location_preference" validate:"required"`
	MinStipend         int      `json:"min_stipend" validate:"gte=0"`
}

// FormInput is the raw state of the form at submission time.
type FormInput struct {
	Education          string
	LocationPreference string
	Stipend            string
	Skills             []string
}

// Payload builds a fresh FormPayload from the form input.
// Skills is never nil so the JSON body always carries an array.
func (in FormInput) Payload() FormPayload {
	skills := make([]string, len(in.Skills))
	copy(skills, in.Skills)

	return FormPayload{
		Education:          in.Education,
		Skills:             skills,
		LocationPreference: in.LocationPreference,
		MinStipend:         ParseStipend(in.Stipend),
	}
}
