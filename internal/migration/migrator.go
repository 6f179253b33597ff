// Package migration rewrites stored attachments into the canonical shape:
// URL-only records are downloaded, legacy binary encodings are re-encoded
// and sizes are recomputed.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"station-api/internal/attachments"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Failure is one line of the failure log.
type Failure struct {
	Time     time.Time `json:"time"`
	Resource string    `json:"resource"`
	ParentID string    `json:"parent_id"`
	Index    int       `json:"index"` // -1 when the whole parent failed to save
	URL      string    `json:"url,omitempty"`
	Error    string    `json:"error"`
}

// Report counts what a run did.
type Report struct {
	Parents       int `json:"parents"`
	Updated       int `json:"updated"`
	Fetched       int `json:"fetched"`
	Canonicalized int `json:"canonicalized"`
	Failed        int `json:"failed"`
}

func (r *Report) Add(o Report) {
	r.Parents += o.Parents
	r.Updated += o.Updated
	r.Fetched += o.Fetched
	r.Canonicalized += o.Canonicalized
	r.Failed += o.Failed
}

func (r Report) String() string {
	return fmt.Sprintf("%d parents, %d updated, %d fetched, %d canonicalized, %d failed",
		r.Parents, r.Updated, r.Fetched, r.Canonicalized, r.Failed)
}

type Migrator struct {
	fetcher Fetcher
	mu      sync.Mutex
	log     *json.Encoder
	now     func() time.Time
}

// NewMigrator writes one JSON object per failed record to failures.
func NewMigrator(fetcher Fetcher, failures io.Writer) *Migrator {
	return &Migrator{
		fetcher: fetcher,
		log:     json.NewEncoder(failures),
		now:     time.Now,
	}
}

// MigrateList returns the rewritten list. A record that cannot be migrated
// stays where it is so the indices after it do not shift.
func (m *Migrator) MigrateList(ctx context.Context, resource, parentID string, list attachments.List) (attachments.List, Report) {
	var report Report
	out := make(attachments.List, len(list))

	for i, rec := range list {
		out[i] = rec

		switch {
		case rec.Legacy():
			migrated, err := m.fetch(ctx, rec, i)
			if err != nil {
				m.fail(resource, parentID, i, rec.URL, err)
				report.Failed++
				continue
			}
			out[i] = migrated
			report.Fetched++

		case !rec.Data.Present():
			m.fail(resource, parentID, i, "", attachments.ErrMissingData)
			report.Failed++

		case rec.Data.Shape() == attachments.ShapeInvalid:
			m.fail(resource, parentID, i, "", fmt.Errorf("%w: unrecognized shape", attachments.ErrInvalidData))
			report.Failed++

		default:
			canonical, changed, err := canonicalize(rec)
			if err != nil {
				m.fail(resource, parentID, i, "", err)
				report.Failed++
				continue
			}
			if changed {
				out[i] = canonical
				report.Canonicalized++
			}
		}
	}

	return out, report
}

// MigrateOwner rewrites o's attachments in place and reports whether
// anything changed. Records MigrateList could not handle are kept as they
// were stored.
func (m *Migrator) MigrateOwner(ctx context.Context, resource, parentID string, o attachments.Owner) (bool, Report) {
	list, report := m.MigrateList(ctx, resource, parentID, o.AttachmentList())
	report.Parents = 1
	if report.Fetched == 0 && report.Canonicalized == 0 {
		return false, report
	}
	o.SetAttachmentList(list)
	report.Updated = 1
	return true, report
}

func (m *Migrator) fetch(ctx context.Context, rec attachments.Record, index int) (attachments.Record, error) {
	data, err := m.fetcher.Fetch(ctx, rec.URL)
	if err != nil {
		return attachments.Record{}, err
	}

	migrated := attachments.NewRecord(legacyFilename(rec, index), legacyMimetype(rec.Type, data), data)
	if rec.ID != "" {
		migrated.ID = rec.ID
	}
	return migrated, nil
}

// canonicalize re-encodes non-canonical payloads and repairs missing ids and
// drifted sizes.
func canonicalize(rec attachments.Record) (attachments.Record, bool, error) {
	data, err := rec.Bytes()
	if err != nil {
		return rec, false, err
	}

	changed := false
	if !rec.Data.Canonical() {
		rec.Data = attachments.NewPayload(data)
		changed = true
	}
	if rec.Size != int64(len(data)) {
		rec.Size = int64(len(data))
		changed = true
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
		changed = true
	}
	return rec, changed, nil
}

func (m *Migrator) fail(resource, parentID string, index int, link string, err error) {
	log.Printf("Failed to migrate %s %s attachment %d: %v", resource, parentID, index, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if encErr := m.log.Encode(Failure{
		Time:     m.now().UTC(),
		Resource: resource,
		ParentID: parentID,
		Index:    index,
		URL:      link,
		Error:    err.Error(),
	}); encErr != nil {
		log.Printf("Failed to write failure log: %v", encErr)
	}
}

// legacyFilename prefers the stored name, then the link's last path segment.
func legacyFilename(rec attachments.Record, index int) string {
	if rec.Name != "" {
		return rec.Name
	}
	if u, err := url.Parse(rec.URL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" && base != "" {
			return base
		}
	}
	return fmt.Sprintf("attachment_%d", index)
}

// legacyMimetype maps the old category field, falling back to content
// sniffing.
func legacyMimetype(kind string, data []byte) string {
	switch {
	case kind == "photo":
		return "image/jpeg"
	case kind == "video":
		return "video/mp4"
	case strings.Contains(kind, "/"):
		return kind
	}
	return mimetype.Detect(data).String()
}
