package attachments

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Record is one stored attachment, embedded in its parent document.
type Record struct {
	ID       string  `json:"id,omitempty"`
	Filename string  `json:"filename,omitempty"`
	Mimetype string  `json:"mimetype,omitempty"`
	Data     Payload `json:"data"`
	Size     int64   `json:"size"`

	// Pre-binary blotter attachments only carried a link to the file.
	URL  string `json:"url,omitempty"`
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

// NewRecord builds a canonical record with a fresh stable id.
func NewRecord(filename, mimetype string, data []byte) Record {
	payload := NewPayload(data)
	return Record{
		ID:       uuid.NewString(),
		Filename: filename,
		Mimetype: mimetype,
		Data:     payload,
		Size:     int64(len(payload.data)),
	}
}

// Legacy reports whether the record still points at an external URL instead
// of holding its bytes.
func (r Record) Legacy() bool {
	return !r.Data.Present() && r.URL != ""
}

// Bytes returns the normalized binary content.
func (r Record) Bytes() ([]byte, error) {
	return r.Data.Bytes()
}

// Validate asserts the write-time invariants. URL-only and undecodable
// records are carried as they were stored and left to the migration job.
func (r Record) Validate() error {
	if r.Legacy() || r.Data.Shape() == ShapeInvalid {
		return nil
	}
	data, err := r.Data.Bytes()
	if err != nil {
		return err
	}
	if r.Size != int64(len(data)) {
		return fmt.Errorf("%w: size %d, data %d bytes", ErrSizeMismatch, r.Size, len(data))
	}
	return nil
}

// List is the ordered attachment list of a parent document. Position is the
// public address of a record, so a list is only ever replaced or appended.
type List []Record

// At returns the record at index.
func (l List) At(index int) (Record, error) {
	if len(l) == 0 {
		return Record{}, ErrNoAttachments
	}
	if index < 0 || index >= len(l) {
		return Record{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return l[index], nil
}

// IndexOf returns the position of the record with the given id, or -1.
func (l List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range l {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// Holds reports whether rec is one of l's stored records, matched by id or,
// for records stored before ids existed, by value.
func (l List) Holds(rec Record) bool {
	if rec.ID != "" {
		return l.IndexOf(rec.ID) >= 0
	}
	for _, r := range l {
		if r.ID == "" && reflect.DeepEqual(r, rec) {
			return true
		}
	}
	return false
}

func (l List) Validate() error {
	for i, r := range l {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("attachment %d: %w", i, err)
		}
	}
	return nil
}

func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
