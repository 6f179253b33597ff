package attachments

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultFilename = "attachment"
	DefaultMimetype = "application/octet-stream"

	timestampToken = "{timestamp}"
)

// Defaults are the per-resource values used when a descriptor leaves
// filename or mimetype out. Filename may contain {timestamp}, expanded to
// milliseconds since the epoch.
type Defaults struct {
	Filename string
	Mimetype string
}

// Descriptor is an attachment as submitted by a client. Data is either a
// JSON string (data URL or bare base64) or an already-binary shape being
// re-submitted. A descriptor without data may reference a stored record by
// id or by its retrieval url.
type Descriptor struct {
	ID       string          `json:"id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
	Filename string          `json:"filename,omitempty"`
	Name     string          `json:"name,omitempty"`
	Mimetype string          `json:"mimetype,omitempty"`
	Type     string          `json:"type,omitempty"`
	Size     int64           `json:"size,omitempty"`
	URL      string          `json:"url,omitempty"`
}

// HasData reports whether the descriptor carries content.
func (d Descriptor) HasData() bool {
	data := bytes.TrimSpace(d.Data)
	return len(data) > 0 && !bytes.Equal(data, []byte("null"))
}

// Descriptors accepts either a JSON array or a single object.
type Descriptors []Descriptor

func (ds *Descriptors) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*ds = nil
	case b[0] == '[':
		var list []Descriptor
		if err := json.Unmarshal(b, &list); err != nil {
			return err
		}
		*ds = list
	case b[0] == '{':
		var one Descriptor
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		*ds = Descriptors{one}
	default:
		return errors.New("attachments must be an object or an array")
	}
	return nil
}

// Codec turns descriptors into records. It is the only place that decodes
// client-submitted attachment content.
type Codec struct {
	defaults Defaults
	now      func() time.Time
}

func NewCodec(defaults Defaults) *Codec {
	if defaults.Filename == "" {
		defaults.Filename = DefaultFilename
	}
	if defaults.Mimetype == "" {
		defaults.Mimetype = DefaultMimetype
	}
	return &Codec{defaults: defaults, now: time.Now}
}

// WithClock returns a copy of the codec reading time from now.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

func (c *Codec) Defaults() Defaults { return c.defaults }

// Decode converts one descriptor. String data is treated as base64, with any
// prefix up to the first comma discarded. Non-string data passes through
// with its bytes untouched. The result always gets a fresh id; only
// descriptors without data keep a stored record, through Merge.
func (c *Codec) Decode(d Descriptor) (Record, error) {
	if !d.HasData() {
		return Record{}, ErrMissingData
	}
	raw := bytes.TrimSpace(d.Data)

	if raw[0] != '"' {
		payload := ParsePayload(raw)
		data, err := payload.Bytes()
		if err != nil {
			return Record{}, err
		}
		size := int64(len(data))
		if d.Size != 0 && d.Size != size {
			return Record{}, fmt.Errorf("%w: size %d, data %d bytes", ErrSizeMismatch, d.Size, size)
		}
		return Record{
			ID:       uuid.NewString(),
			Filename: c.filename(d),
			Mimetype: c.mimetype(d, ""),
			Data:     payload,
			Size:     size,
		}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return Record{}, ErrInvalidData
	}
	encoded, mediaType, _ := splitDataURL(s)
	data, err := decodeBase64(encoded)
	if err != nil {
		return Record{}, err
	}
	return NewRecord(c.filename(d), c.mimetype(d, mediaType), data), nil
}

// DecodeAll converts every descriptor, failing on the first bad one.
func (c *Codec) DecodeAll(ds Descriptors) (List, error) {
	out := make(List, 0, len(ds))
	for i, d := range ds {
		rec, err := c.Decode(d)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

var attachmentURLPattern = regexp.MustCompile(`/attachments/(\d+)/?$`)

// Merge builds a replacement list for existing. Descriptors without data
// that reference a stored record keep it as-is; everything else is decoded.
func (c *Codec) Merge(existing List, ds Descriptors) (List, error) {
	out := make(List, 0, len(ds))
	for i, d := range ds {
		if !d.HasData() {
			rec, ok := reference(existing, d)
			if !ok {
				return nil, fmt.Errorf("attachment %d: %w", i, ErrMissingData)
			}
			out = append(out, rec)
			continue
		}
		rec, err := c.Decode(d)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: %w", i, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func reference(existing List, d Descriptor) (Record, bool) {
	if i := existing.IndexOf(d.ID); i >= 0 {
		return existing[i], true
	}
	m := attachmentURLPattern.FindStringSubmatch(d.URL)
	if m == nil {
		return Record{}, false
	}
	index, err := strconv.Atoi(m[1])
	if err != nil {
		return Record{}, false
	}
	rec, err := existing.At(index)
	return rec, err == nil
}

func (c *Codec) filename(d Descriptor) string {
	switch {
	case d.Filename != "":
		return d.Filename
	case d.Name != "":
		return d.Name
	}
	return strings.ReplaceAll(c.defaults.Filename, timestampToken, strconv.FormatInt(c.now().UnixMilli(), 10))
}

// mimetype prefers explicit fields, then the data URL's media type. The
// legacy blotter "type" held a category like "photo", which is not a
// media type and is ignored here.
func (c *Codec) mimetype(d Descriptor, mediaType string) string {
	switch {
	case d.Mimetype != "":
		return d.Mimetype
	case strings.Contains(d.Type, "/"):
		return d.Type
	case mediaType != "":
		return mediaType
	}
	return c.defaults.Mimetype
}
