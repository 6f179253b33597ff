package attachments

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkerURL(t *testing.T) {
	assert.Equal(t, "/announcements/abc/attachments/0", NewLinker("", "announcements").URL("abc", 0))
	assert.Equal(t, "/api/v1/blotters/abc/attachments/2", NewLinker("/api/v1/", "/blotters/").URL("abc", 2))
	assert.Equal(t, "/officers/abc/picture", NewLinker("", "officers").PictureURL("abc"))
}

func TestSummarizeStripsPayloads(t *testing.T) {
	linker := NewLinker("", "clearances")
	list := List{
		NewRecord("proof.jpg", "image/jpeg", []byte{1, 2}),
		{Name: "legacy.jpg", URL: "https://cdn.example.com/legacy.jpg", Type: "photo"},
	}

	summaries := linker.Summarize("p1", list)
	require.Len(t, summaries, 2)

	assert.Equal(t, Summary{
		ID:       list[0].ID,
		Filename: "proof.jpg",
		Mimetype: "image/jpeg",
		Size:     2,
		URL:      "/clearances/p1/attachments/0",
	}, summaries[0])
	assert.Equal(t, "legacy.jpg", summaries[1].Filename)
	assert.Equal(t, "https://cdn.example.com/legacy.jpg", summaries[1].URL)
}

func TestSummarizeEmptyIsNotNil(t *testing.T) {
	summaries := NewLinker("", "blotters").Summarize("p1", nil)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestSummarizeOne(t *testing.T) {
	linker := NewLinker("", "officers")
	assert.Nil(t, linker.SummarizeOne("o1", nil))

	rec := NewRecord("me.jpg", "image/jpeg", []byte{1})
	s := linker.SummarizeOne("o1", &rec)
	require.NotNil(t, s)
	assert.Equal(t, "/officers/o1/picture", s.URL)
}

func TestContentDispositionRoundTrip(t *testing.T) {
	for _, name := range []string{
		`plain.png`,
		`say "cheese".jpg`,
		`résumé, final.pdf`,
		`ulat ng insidente 事件.png`,
		`a+b=c;d'(e)*.txt`,
	} {
		t.Run(name, func(t *testing.T) {
			header := ContentDisposition(name)
			assert.True(t, strings.HasPrefix(header, `inline; filename="`))

			parts := strings.SplitN(header, "filename*=UTF-8''", 2)
			require.Len(t, parts, 2)
			encoded := parts[1]

			assert.NotContains(t, encoded, `"`)
			assert.NotContains(t, encoded, ",")
			assert.NotContains(t, encoded, " ")
			assert.Contains(t, parts[0], `filename="`+encoded+`"`)

			decoded, err := url.PathUnescape(encoded)
			require.NoError(t, err)
			assert.Equal(t, name, decoded)
		})
	}
}

func TestContentDispositionDefaultsFilename(t *testing.T) {
	assert.Equal(t, `inline; filename="attachment"; filename*=UTF-8''attachment`, ContentDisposition(""))
}

func TestResourceServeMimetype(t *testing.T) {
	res := Resource{FallbackMimetype: "image/jpeg"}
	assert.Equal(t, "image/png", res.ServeMimetype(Record{Mimetype: "image/png"}))
	assert.Equal(t, "image/jpeg", res.ServeMimetype(Record{}))
	assert.Equal(t, DefaultMimetype, Resource{}.ServeMimetype(Record{}))
}
