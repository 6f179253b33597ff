package handlers

import (
	"station-api/internal/attachments"
	"station-api/internal/models"
	"station-api/internal/services"
)

// Views shadow each model's stored attachments with URL-bearing summaries;
// payload bytes never leave through the JSON API.

type announcementView struct {
	*models.Announcement
	Attachments []attachments.Summary `json:"attachments"`
}

type blotterView struct {
	*models.Blotter
	Attachments []attachments.Summary `json:"attachments"`
}

type clearanceView struct {
	*models.Clearance
	Attachments []attachments.Summary `json:"attachments"`
}

type officerView struct {
	*models.Officer
	ProfilePicture *attachments.Summary `json:"profile_picture"`
}

func newAnnouncementView(svc *services.AttachmentService, a *models.Announcement) announcementView {
	return announcementView{
		Announcement: a,
		Attachments:  svc.Summaries(services.Announcements, a.ID.String(), a.Attachments),
	}
}

func newBlotterView(svc *services.AttachmentService, b *models.Blotter) blotterView {
	return blotterView{
		Blotter:     b,
		Attachments: svc.Summaries(services.Blotters, b.ID.String(), b.Attachments),
	}
}

func newClearanceView(svc *services.AttachmentService, cl *models.Clearance) clearanceView {
	return clearanceView{
		Clearance:   cl,
		Attachments: svc.Summaries(services.Clearances, cl.ID.String(), cl.Attachments),
	}
}

func newOfficerView(svc *services.AttachmentService, o *models.Officer) officerView {
	return officerView{
		Officer:        o,
		ProfilePicture: svc.Picture(services.Officers, o.ID.String(), o.ProfilePicture),
	}
}

// viewAll maps a fetched slice through newView, in order
func viewAll[T any, V any](svc *services.AttachmentService, items []T, newView func(*services.AttachmentService, *T) V) []V {
	views := make([]V, len(items))
	for i := range items {
		views[i] = newView(svc, &items[i])
	}
	return views
}
