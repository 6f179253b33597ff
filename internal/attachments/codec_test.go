package attachments

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringData(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}

func TestCodecDecodeDataURL(t *testing.T) {
	codec := NewCodec(Defaults{})

	rec, err := codec.Decode(Descriptor{Data: stringData("data:image/png;base64,AAAA")})
	require.NoError(t, err)

	data, err := rec.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0}, data)
	assert.Equal(t, int64(3), rec.Size)
	assert.Equal(t, "image/png", rec.Mimetype)
	assert.Equal(t, "attachment", rec.Filename)
	assert.NotEmpty(t, rec.ID)
	assert.True(t, rec.Data.Canonical())
}

func TestCodecDecodeFieldResolution(t *testing.T) {
	codec := NewCodec(Defaults{})

	tests := []struct {
		name         string
		desc         Descriptor
		wantFilename string
		wantMimetype string
	}{
		{
			name:         "bare base64 uses defaults",
			desc:         Descriptor{Data: stringData("aGVsbG8=")},
			wantFilename: "attachment",
			wantMimetype: "application/octet-stream",
		},
		{
			name:         "filename wins over name",
			desc:         Descriptor{Data: stringData("aGVsbG8="), Filename: "a.txt", Name: "b.txt"},
			wantFilename: "a.txt",
			wantMimetype: "application/octet-stream",
		},
		{
			name:         "name used when filename missing",
			desc:         Descriptor{Data: stringData("aGVsbG8="), Name: "b.txt"},
			wantFilename: "b.txt",
			wantMimetype: "application/octet-stream",
		},
		{
			name:         "mimetype wins over type and data url",
			desc:         Descriptor{Data: stringData("data:image/png;base64,AAAA"), Mimetype: "image/gif", Type: "image/webp"},
			wantFilename: "attachment",
			wantMimetype: "image/gif",
		},
		{
			name:         "type used when mimetype missing",
			desc:         Descriptor{Data: stringData("data:image/png;base64,AAAA"), Type: "image/webp"},
			wantFilename: "attachment",
			wantMimetype: "image/webp",
		},
		{
			name:         "legacy category type ignored",
			desc:         Descriptor{Data: stringData("AAAA"), Type: "photo"},
			wantFilename: "attachment",
			wantMimetype: "application/octet-stream",
		},
		{
			name:         "non data url prefix still stripped",
			desc:         Descriptor{Data: stringData("junk,aGVsbG8=")},
			wantFilename: "attachment",
			wantMimetype: "application/octet-stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := codec.Decode(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFilename, rec.Filename)
			assert.Equal(t, tt.wantMimetype, rec.Mimetype)

			data, err := rec.Bytes()
			require.NoError(t, err)
			assert.Equal(t, int64(len(data)), rec.Size)
		})
	}
}

func TestCodecDefaults(t *testing.T) {
	fixed := time.UnixMilli(1700000000123)
	codec := NewCodec(Defaults{Filename: "proof_{timestamp}.jpg", Mimetype: "image/jpeg"}).
		WithClock(func() time.Time { return fixed })

	rec, err := codec.Decode(Descriptor{Data: stringData("AAAA")})
	require.NoError(t, err)
	assert.Equal(t, "proof_1700000000123.jpg", rec.Filename)
	assert.Equal(t, "image/jpeg", rec.Mimetype)
}

func TestCodecDecodeLenientBase64(t *testing.T) {
	codec := NewCodec(Defaults{})

	for _, input := range []string{"aGVsbG8=", "aGVsbG8", "aGVs\nbG8=", "data:text/plain;base64,aGVsbG8"} {
		rec, err := codec.Decode(Descriptor{Data: stringData(input)})
		require.NoError(t, err, input)
		data, _ := rec.Bytes()
		assert.Equal(t, "hello", string(data), input)
	}
}

func TestCodecDecodeRejectsMalformedBase64(t *testing.T) {
	codec := NewCodec(Defaults{})

	_, err := codec.Decode(Descriptor{Data: stringData("data:image/png;base64,@@@@")})
	assert.ErrorIs(t, err, ErrInvalidBase64)
}

func TestCodecDecodeMissingData(t *testing.T) {
	codec := NewCodec(Defaults{})

	_, err := codec.Decode(Descriptor{Filename: "x.png"})
	assert.ErrorIs(t, err, ErrMissingData)

	_, err = codec.Decode(Descriptor{Data: json.RawMessage("null")})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestCodecPassThroughKeepsBytes(t *testing.T) {
	codec := NewCodec(Defaults{})

	original, err := codec.Decode(Descriptor{Data: stringData("data:image/png;base64,iVBORw0KGgo="), Filename: "p.png"})
	require.NoError(t, err)

	// What a client sends back after reading the stored record verbatim.
	stored, err := json.Marshal(original)
	require.NoError(t, err)
	var resubmitted Descriptor
	require.NoError(t, json.Unmarshal(stored, &resubmitted))
	resubmitted.Data = json.RawMessage(`{"buffer":` + string(resubmitted.Data) + `}`)

	again, err := codec.Decode(resubmitted)
	require.NoError(t, err)

	want, _ := original.Bytes()
	got, err := again.Bytes()
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.NotEqual(t, original.ID, again.ID, "content carried in the body is a new record")
	assert.Equal(t, original.Size, again.Size)
	assert.Equal(t, "p.png", again.Filename)
}

func TestCodecPassThroughShapes(t *testing.T) {
	codec := NewCodec(Defaults{})

	for name, raw := range map[string]string{
		"buffer json":    `{"type":"Buffer","data":[1,2,3]}`,
		"extended json":  `{"$binary":{"base64":"AQID","subType":"00"}}`,
		"byte array":     `[1,2,3]`,
		"indexed object": `{"0":1,"1":2,"2":3}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, err := codec.Decode(Descriptor{Data: json.RawMessage(raw)})
			require.NoError(t, err)
			data, err := rec.Bytes()
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, data)
			assert.Equal(t, int64(3), rec.Size)
		})
	}
}

func TestCodecPassThroughRejectsWrongSize(t *testing.T) {
	codec := NewCodec(Defaults{})

	_, err := codec.Decode(Descriptor{Data: json.RawMessage(`[1,2,3]`), Size: 4})
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestCodecPassThroughRejectsUnknownShape(t *testing.T) {
	codec := NewCodec(Defaults{})

	_, err := codec.Decode(Descriptor{Data: json.RawMessage(`{"foo":"bar"}`)})
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestCodecMergeKeepsReferencedRecords(t *testing.T) {
	codec := NewCodec(Defaults{})
	existing := List{
		NewRecord("a.png", "image/png", []byte{1}),
		NewRecord("b.png", "image/png", []byte{2}),
	}

	merged, err := codec.Merge(existing, Descriptors{
		{URL: "/announcements/abc/attachments/1"},
		{ID: existing[0].ID},
		{Data: stringData("AAAA")},
	})
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, existing[1], merged[0])
	assert.Equal(t, existing[0], merged[1])
	assert.Equal(t, int64(3), merged[2].Size)
}

func TestCodecMergeRejectsDanglingReference(t *testing.T) {
	codec := NewCodec(Defaults{})
	existing := List{NewRecord("a.png", "image/png", []byte{1})}

	_, err := codec.Merge(existing, Descriptors{{URL: "/announcements/abc/attachments/4"}})
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestDescriptorsAcceptObjectOrArray(t *testing.T) {
	var body struct {
		Attachments Descriptors `json:"attachments"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"attachments":{"data":"AAAA","name":"x"}}`), &body))
	require.Len(t, body.Attachments, 1)
	assert.Equal(t, "x", body.Attachments[0].Name)

	require.NoError(t, json.Unmarshal([]byte(`{"attachments":[{"data":"AAAA"},{"data":"AQID"}]}`), &body))
	assert.Len(t, body.Attachments, 2)

	require.NoError(t, json.Unmarshal([]byte(`{"attachments":null}`), &body))
	assert.Nil(t, body.Attachments)

	assert.Error(t, json.Unmarshal([]byte(`{"attachments":"AAAA"}`), &body))
}
