package dto

// StartAcademicYearRequest opens a new academic year and makes its first
// semester the school's active period.
type StartAcademicYearRequest struct {
	Label    string `json:"label" validate:"required,max=32"`
	Semester string `json:"semester" validate:"required,oneof=first second"`
}

// SetThresholdRequest sets or clears an eligibility threshold. A nil value
// clears a lecturer override (reverting to the school default) or the school
// default (reverting to the built-in fallback).
type SetThresholdRequest struct {
	Threshold *int `json:"threshold" validate:"omitempty,min=50,max=100"`
}
