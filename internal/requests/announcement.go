package requests

import "station-api/internal/attachments"

// AnnouncementRequest is the body of both create and update. On update the
// attachment list is replaced; entries without data must reference a stored
// attachment by id or url.
type AnnouncementRequest struct {
	StationID   string                  `json:"station_id" validate:"required"`
	Title       string                  `json:"title" validate:"required"`
	Details     string                  `json:"details" validate:"required"`
	Status      string                  `json:"status" validate:"required"`
	Attachments attachments.Descriptors `json:"attachments"`
}
