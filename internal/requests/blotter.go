package requests

import "station-api/internal/attachments"

// CreateBlotterRequest represents an incident report submission
type CreateBlotterRequest struct {
	UserID              string                  `json:"userId"`
	IncidentType        string                  `json:"incidentType" validate:"required,oneof=Theft Robbery Assault Accident Other"`
	IncidentDate        string                  `json:"incidentDate" validate:"required"`
	IncidentTime        string                  `json:"incidentTime" validate:"required"`
	IncidentDescription string                  `json:"incidentDescription" validate:"required,min=10"`
	Latitude            *float64                `json:"latitude" validate:"required"`
	Longitude           *float64                `json:"longitude" validate:"required"`
	Address             string                  `json:"address"`
	ReporterName        string                  `json:"reporterName" validate:"required"`
	ReporterContact     string                  `json:"reporterContact" validate:"required"`
	ReporterAddress     string                  `json:"reporterAddress" validate:"required"`
	OfficerID           string                  `json:"officerId"`
	Attachments         attachments.Descriptors `json:"attachments"`
}

// UpdateBlotterRequest represents an admin update. Attachments replace the
// stored list only when present.
type UpdateBlotterRequest struct {
	Status      *string                 `json:"status" validate:"omitempty,oneof=Pending 'Under Review' Investigating Resolved Closed"`
	Notes       *string                 `json:"notes"`
	OfficerID   *string                 `json:"officerId"`
	Attachments attachments.Descriptors `json:"attachments"`
}
