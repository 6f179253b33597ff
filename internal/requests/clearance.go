package requests

import "station-api/internal/attachments"

// CreateClearanceRequest represents a clearance application
type CreateClearanceRequest struct {
	Purpose         string                  `json:"purpose" validate:"required"`
	StationID       string                  `json:"station_id"`
	AppointmentDate string                  `json:"appointment_date"`
	TimeSlot        string                  `json:"time_slot"`
	Price           *float64                `json:"price" validate:"omitempty,min=0"`
	Attachments     attachments.Descriptors `json:"attachments"`
}

type PaymentRequest struct {
	Processor     string `json:"processor"`
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
}

// UpdateClearanceRequest represents a status or payment update. Attachments
// are proof-of-payment uploads appended after the stored ones.
type UpdateClearanceRequest struct {
	Status        *string                 `json:"status"`
	PaymentStatus *string                 `json:"payment_status"`
	Payment       *PaymentRequest         `json:"payment"`
	Attachments   attachments.Descriptors `json:"attachments"`
}
