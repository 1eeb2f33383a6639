package handlers

import "strings"

// ValidationResult carries field-level messages back to the template. Form
// validation never escapes the handler: an invalid form re-renders the page
// with inline errors and no workflow state changes.
type ValidationResult struct {
	Errors map[string]string
}

func (v ValidationResult) OK() bool {
	return len(v.Errors) == 0
}

// AddMovieForm is the title-entry form that starts the ingestion workflow.
type AddMovieForm struct {
	Title string `form:"title"`
}

func (f *AddMovieForm) Validate() ValidationResult {
	errs := map[string]string{}
	if strings.TrimSpace(f.Title) == "" {
		errs["title"] = "Title is required"
	}
	return ValidationResult{Errors: errs}
}

// RateMovieForm is the rating/review form. Rating parseability is checked by
// the rating workflow, not here; only presence is a form concern.
type RateMovieForm struct {
	Rating string `form:"rating"`
	Review string `form:"review"`
}

func (f *RateMovieForm) Validate() ValidationResult {
	errs := map[string]string{}
	if strings.TrimSpace(f.Rating) == "" {
		errs["rating"] = "Rating is required"
	}
	return ValidationResult{Errors: errs}
}
