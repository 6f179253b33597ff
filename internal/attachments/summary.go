package attachments

import (
	"fmt"
	"strings"
)

// Summary is the client-facing view of a record: metadata plus the URL the
// bytes are served from.
type Summary struct {
	ID       string `json:"id,omitempty"`
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Size     int64  `json:"size"`
	URL      string `json:"url"`
}

// Linker builds retrieval URLs for one resource collection.
type Linker struct {
	base       string
	collection string
}

func NewLinker(basePath, collection string) Linker {
	return Linker{
		base:       strings.TrimRight(basePath, "/"),
		collection: strings.Trim(collection, "/"),
	}
}

// URL is <base>/<collection>/<parentID>/attachments/<index>.
func (l Linker) URL(parentID string, index int) string {
	return fmt.Sprintf("%s/%s/%s/attachments/%d", l.base, l.collection, parentID, index)
}

// PictureURL is the singleton variant, <base>/<collection>/<parentID>/picture.
func (l Linker) PictureURL(parentID string) string {
	return fmt.Sprintf("%s/%s/%s/picture", l.base, l.collection, parentID)
}

// Summarize strips payloads from a snapshot of list, in order. URL-only
// legacy records keep their original link.
func (l Linker) Summarize(parentID string, list List) []Summary {
	out := make([]Summary, len(list))
	for i, rec := range list {
		out[i] = summarize(rec, l.URL(parentID, i))
	}
	return out
}

// SummarizeOne is Summarize for a singleton record; nil stays nil.
func (l Linker) SummarizeOne(parentID string, rec *Record) *Summary {
	if rec == nil {
		return nil
	}
	s := summarize(*rec, l.PictureURL(parentID))
	return &s
}

func summarize(rec Record, url string) Summary {
	filename := rec.Filename
	if filename == "" {
		filename = rec.Name
	}
	// Not migrated yet; the old link is the only place the bytes live.
	if rec.Legacy() {
		url = rec.URL
	}
	return Summary{
		ID:       rec.ID,
		Filename: filename,
		Mimetype: rec.Mimetype,
		Size:     rec.Size,
		URL:      url,
	}
}
