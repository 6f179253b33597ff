package attachments

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Owner is a document that embeds an attachment list. The list is persisted
// by saving the owner itself, so every change lands in one document write.
type Owner interface {
	AttachmentList() List
	SetAttachmentList(List)
}

// Set replaces the owner's whole list. Records the owner already holds are
// carried as stored; only new ones are validated.
func Set(o Owner, records List) error {
	existing := o.AttachmentList()
	for i, rec := range records {
		if existing.Holds(rec) {
			continue
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("attachment %d: %w", i, err)
		}
	}
	o.SetAttachmentList(records.Clone())
	return nil
}

// Append extends the owner's list, leaving the indices of existing records
// untouched.
func Append(o Owner, records List) error {
	if err := records.Validate(); err != nil {
		return err
	}
	existing := o.AttachmentList()
	merged := make(List, 0, len(existing)+len(records))
	merged = append(merged, existing...)
	merged = append(merged, records...)
	o.SetAttachmentList(merged)
	return nil
}

// Get returns the owner's record at index.
func Get(o Owner, index int) (Record, error) {
	return o.AttachmentList().At(index)
}

// Ref addresses a record either by position or by its stable id.
type Ref struct {
	Index int
	ID    string
}

// ParseRef accepts a non-negative integer index or an attachment id.
func ParseRef(s string) (Ref, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return Ref{}, fmt.Errorf("%w: %s", ErrInvalidIndex, s)
		}
		return Ref{Index: n}, nil
	}
	if _, err := uuid.Parse(s); err == nil {
		return Ref{Index: -1, ID: s}, nil
	}
	return Ref{}, fmt.Errorf("%w: %s", ErrInvalidIndex, s)
}

func (r Ref) String() string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(r.Index)
}

// Resolve finds the record a ref points at and its current position.
func Resolve(l List, ref Ref) (int, Record, error) {
	if len(l) == 0 {
		return -1, Record{}, ErrNoAttachments
	}
	if ref.ID != "" {
		i := l.IndexOf(ref.ID)
		if i < 0 {
			return -1, Record{}, fmt.Errorf("%w: %s", ErrAttachmentNotFound, ref.ID)
		}
		return i, l[i], nil
	}
	rec, err := l.At(ref.Index)
	if err != nil {
		return -1, Record{}, err
	}
	return ref.Index, rec, nil
}
