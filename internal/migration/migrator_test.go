package migration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"station-api/internal/attachments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type stubFetcher map[string][]byte

func (s stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	data, ok := s[url]
	if !ok {
		return nil, errors.New("fetch " + url + ": status 404")
	}
	return data, nil
}

func legacy(kind, url, name string) attachments.Record {
	return attachments.Record{Type: kind, URL: url, Name: name}
}

func failures(t *testing.T, buf *bytes.Buffer) []Failure {
	t.Helper()
	var out []Failure
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var f Failure
		require.NoError(t, json.Unmarshal(sc.Bytes(), &f))
		out = append(out, f)
	}
	return out
}

func TestMigrateListFetchesURLRecords(t *testing.T) {
	fetcher := stubFetcher{
		"https://cdn.example.com/a.jpg":    {1, 2, 3},
		"https://cdn.example.com/clip.mp4": {4, 5},
		"https://cdn.example.com/scan":     pngHeader,
		"https://cdn.example.com":          {9},
	}
	var log bytes.Buffer
	m := NewMigrator(fetcher, &log)

	list := attachments.List{
		legacy("photo", "https://cdn.example.com/a.jpg", "evidence.jpg"),
		legacy("video", "https://cdn.example.com/clip.mp4", ""),
		legacy("", "https://cdn.example.com/scan", ""),
		legacy("application/pdf", "https://cdn.example.com", ""),
	}

	out, report := m.MigrateList(context.Background(), "blotters", "b1", list)
	assert.Equal(t, Report{Fetched: 4}, report)
	assert.Empty(t, log.String())
	require.Len(t, out, 4)

	assert.Equal(t, "evidence.jpg", out[0].Filename)
	assert.Equal(t, "image/jpeg", out[0].Mimetype)
	assert.Equal(t, "clip.mp4", out[1].Filename)
	assert.Equal(t, "video/mp4", out[1].Mimetype)
	assert.Equal(t, "scan", out[2].Filename)
	assert.Equal(t, "image/png", out[2].Mimetype)
	assert.Equal(t, "attachment_3", out[3].Filename)
	assert.Equal(t, "application/pdf", out[3].Mimetype)

	for _, rec := range out {
		assert.False(t, rec.Legacy())
		assert.NotEmpty(t, rec.ID)
		data, err := rec.Bytes()
		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), rec.Size)
	}
}

func TestMigrateListKeepsFailedRecordsInPlace(t *testing.T) {
	var log bytes.Buffer
	m := NewMigrator(stubFetcher{}, &log)

	good := attachments.NewRecord("ok.png", "image/png", []byte{1})
	list := attachments.List{
		legacy("photo", "https://cdn.example.com/gone.jpg", "gone.jpg"),
		good,
	}

	out, report := m.MigrateList(context.Background(), "blotters", "b1", list)
	assert.Equal(t, Report{Failed: 1}, report)
	assert.Equal(t, list[0], out[0])
	assert.Equal(t, good.ID, out[1].ID)

	logged := failures(t, &log)
	require.Len(t, logged, 1)
	assert.Equal(t, "blotters", logged[0].Resource)
	assert.Equal(t, "b1", logged[0].ParentID)
	assert.Equal(t, 0, logged[0].Index)
	assert.Equal(t, "https://cdn.example.com/gone.jpg", logged[0].URL)
	assert.Contains(t, logged[0].Error, "404")
}

func TestMigrateListCanonicalizesStoredShapes(t *testing.T) {
	var log bytes.Buffer
	m := NewMigrator(stubFetcher{}, &log)

	buffer := attachments.Record{
		Filename: "buf.bin",
		Mimetype: "application/octet-stream",
		Data:     attachments.ParsePayload([]byte(`{"type":"Buffer","data":[1,2,3]}`)),
	}
	invalid := attachments.Record{
		Filename: "junk.bin",
		Data:     attachments.ParsePayload([]byte(`{"unexpected":true}`)),
		Size:     1,
	}
	empty := attachments.Record{Filename: "empty.bin"}

	out, report := m.MigrateList(context.Background(), "announcements", "a1", attachments.List{buffer, invalid, empty})
	assert.Equal(t, Report{Canonicalized: 1, Failed: 2}, report)

	assert.True(t, out[0].Data.Canonical())
	assert.Equal(t, int64(3), out[0].Size)
	assert.NotEmpty(t, out[0].ID)
	data, err := out[0].Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	assert.Equal(t, invalid, out[1])
	assert.Equal(t, empty, out[2])

	logged := failures(t, &log)
	require.Len(t, logged, 2)
	assert.Equal(t, 1, logged[0].Index)
	assert.Equal(t, 2, logged[1].Index)
}

func TestMigrateListRepairsSizeDrift(t *testing.T) {
	m := NewMigrator(stubFetcher{}, &bytes.Buffer{})

	rec := attachments.NewRecord("a.bin", "application/octet-stream", []byte{1, 2})
	rec.Size = 7

	out, report := m.MigrateList(context.Background(), "clearances", "c1", attachments.List{rec})
	assert.Equal(t, 1, report.Canonicalized)
	assert.Equal(t, int64(2), out[0].Size)
	assert.Equal(t, rec.ID, out[0].ID)
}

type listOwner struct{ list attachments.List }

func (o *listOwner) AttachmentList() attachments.List      { return o.list }
func (o *listOwner) SetAttachmentList(l attachments.List) { o.list = l }

func TestMigrateOwner(t *testing.T) {
	m := NewMigrator(stubFetcher{"https://cdn.example.com/a.jpg": {7}}, &bytes.Buffer{})

	canonical := &listOwner{list: attachments.List{attachments.NewRecord("a", "image/png", []byte{1})}}
	changed, report := m.MigrateOwner(context.Background(), "announcements", "a1", canonical)
	assert.False(t, changed)
	assert.Equal(t, Report{Parents: 1}, report)

	stale := &listOwner{list: attachments.List{legacy("photo", "https://cdn.example.com/a.jpg", "")}}
	changed, report = m.MigrateOwner(context.Background(), "blotters", "b1", stale)
	assert.True(t, changed)
	assert.Equal(t, Report{Parents: 1, Updated: 1, Fetched: 1}, report)
	assert.Equal(t, "a.jpg", stale.list[0].Filename)
}

func TestMigrateOwnerKeepsUnmigratableSiblings(t *testing.T) {
	var log bytes.Buffer
	m := NewMigrator(stubFetcher{}, &log)

	broken := attachments.Record{Filename: "broken"}
	o := &listOwner{list: attachments.List{
		{Filename: "buf.bin", Data: attachments.ParsePayload([]byte(`[1,2,3]`))},
		broken,
	}}

	changed, report := m.MigrateOwner(context.Background(), "announcements", "a1", o)
	assert.True(t, changed)
	assert.Equal(t, Report{Parents: 1, Updated: 1, Canonicalized: 1, Failed: 1}, report)
	require.Len(t, o.list, 2)
	assert.True(t, o.list[0].Data.Canonical())
	assert.Equal(t, broken, o.list[1])
	assert.Len(t, failures(t, &log), 1)
}

func TestLegacyMimetype(t *testing.T) {
	tests := []struct {
		kind string
		data []byte
		want string
	}{
		{"photo", nil, "image/jpeg"},
		{"video", nil, "video/mp4"},
		{"image/webp", nil, "image/webp"},
		{"", pngHeader, "image/png"},
		{"document", []byte{0x00, 0x01, 0x02}, "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			assert.Equal(t, tt.want, legacyMimetype(tt.kind, tt.data))
		})
	}
}

func TestReportAdd(t *testing.T) {
	total := Report{Parents: 1, Fetched: 2}
	total.Add(Report{Parents: 2, Updated: 1, Canonicalized: 3, Failed: 1})
	assert.Equal(t, Report{Parents: 3, Updated: 1, Fetched: 2, Canonicalized: 3, Failed: 1}, total)
	assert.Equal(t, "3 parents, 1 updated, 2 fetched, 3 canonicalized, 1 failed", total.String())
}
