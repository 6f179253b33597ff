package attachments

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Shape identifies the encoding a payload was read from.
type Shape int

const (
	ShapeMissing Shape = iota
	// ShapeBase64 is the canonical stored form: a plain base64 string.
	ShapeBase64
	// ShapeDataURL is a base64 string still carrying its data:<mime>;base64, prefix.
	ShapeDataURL
	// ShapeBufferJSON is {"type":"Buffer","data":[...]}.
	ShapeBufferJSON
	// ShapeExtendedJSON is a Mongo extended-JSON binary: {"$binary": ...}.
	ShapeExtendedJSON
	// ShapeWrapped is a driver binary wrapper: {"buffer": <any shape>, ...}.
	ShapeWrapped
	// ShapeByteArray is a bare JSON array of byte values.
	ShapeByteArray
	// ShapeIndexed is a byte-array-like object: {"0": 1, "1": 2, ...}.
	ShapeIndexed
	ShapeInvalid
)

var shapeNames = map[Shape]string{
	ShapeMissing:      "missing",
	ShapeBase64:       "base64",
	ShapeDataURL:      "data-url",
	ShapeBufferJSON:   "buffer-json",
	ShapeExtendedJSON: "extended-json",
	ShapeWrapped:      "wrapped",
	ShapeByteArray:    "byte-array",
	ShapeIndexed:      "indexed-object",
	ShapeInvalid:      "invalid",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "unknown"
}

// Payload holds the binary content of an attachment together with the shape
// it was decoded from. Every recognized shape normalizes to one byte slice;
// marshalling always writes the canonical base64 form, except for invalid
// payloads which are written back verbatim.
type Payload struct {
	data  []byte
	shape Shape
	raw   json.RawMessage
}

// NewPayload wraps decoded bytes in the canonical shape.
func NewPayload(data []byte) Payload {
	if data == nil {
		data = []byte{}
	}
	return Payload{data: data, shape: ShapeBase64}
}

func (p Payload) Shape() Shape { return p.shape }

// Present reports whether the payload carries anything at all, valid or not.
func (p Payload) Present() bool { return p.shape != ShapeMissing }

// Canonical reports whether the payload was read in the canonical shape.
func (p Payload) Canonical() bool { return p.shape == ShapeBase64 }

// Bytes returns the normalized content.
func (p Payload) Bytes() ([]byte, error) {
	switch p.shape {
	case ShapeMissing:
		return nil, ErrMissingData
	case ShapeInvalid:
		return nil, ErrInvalidData
	}
	return p.data, nil
}

func (p Payload) MarshalJSON() ([]byte, error) {
	switch p.shape {
	case ShapeMissing:
		return []byte("null"), nil
	case ShapeInvalid:
		return p.raw, nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(p.data))
}

func (p *Payload) UnmarshalJSON(b []byte) error {
	*p = ParsePayload(b)
	return nil
}

// ParsePayload normalizes any stored or submitted representation of binary
// content. It never fails: unrecognized input yields a ShapeInvalid payload
// that reports ErrInvalidData from Bytes.
func ParsePayload(b []byte) Payload {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return Payload{shape: ShapeMissing}
	}
	invalid := Payload{shape: ShapeInvalid, raw: append(json.RawMessage(nil), b...)}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return invalid
		}
		encoded, _, hasPrefix := splitDataURL(s)
		data, err := decodeBase64(encoded)
		if err != nil {
			return invalid
		}
		if hasPrefix {
			return Payload{data: data, shape: ShapeDataURL}
		}
		return Payload{data: data, shape: ShapeBase64}

	case '[':
		data, ok := bytesFromArray(b)
		if !ok {
			return invalid
		}
		return Payload{data: data, shape: ShapeByteArray}

	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(b, &obj); err != nil {
			return invalid
		}
		if p, ok := parseObject(obj); ok {
			return p
		}
	}
	return invalid
}

func parseObject(obj map[string]json.RawMessage) (Payload, bool) {
	if bin, ok := obj["$binary"]; ok {
		data, ok := decodeExtendedBinary(bin)
		if !ok {
			return Payload{}, false
		}
		return Payload{data: data, shape: ShapeExtendedJSON}, true
	}

	if typ, ok := obj["type"]; ok {
		var name string
		if json.Unmarshal(typ, &name) == nil && name == "Buffer" {
			data, ok := bytesFromArray(obj["data"])
			if !ok {
				return Payload{}, false
			}
			return Payload{data: data, shape: ShapeBufferJSON}, true
		}
	}

	if inner, ok := obj["buffer"]; ok {
		p := ParsePayload(inner)
		data, err := p.Bytes()
		if err != nil {
			return Payload{}, false
		}
		return Payload{data: data, shape: ShapeWrapped}, true
	}

	if data, ok := bytesFromIndexed(obj); ok {
		return Payload{data: data, shape: ShapeIndexed}, true
	}
	return Payload{}, false
}

// decodeExtendedBinary accepts both canonical ({"base64": ..., "subType": ...})
// and legacy ("<base64>" alongside "$type") extended-JSON binaries.
func decodeExtendedBinary(raw json.RawMessage) ([]byte, bool) {
	var legacy string
	if json.Unmarshal(raw, &legacy) == nil {
		data, err := base64.StdEncoding.DecodeString(legacy)
		return data, err == nil
	}
	var canonical struct {
		Base64 *string `json:"base64"`
	}
	if json.Unmarshal(raw, &canonical) != nil || canonical.Base64 == nil {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(*canonical.Base64)
	return data, err == nil
}

func bytesFromArray(raw json.RawMessage) ([]byte, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var values []int
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	data := make([]byte, len(values))
	for i, v := range values {
		if v < 0 || v > 255 {
			return nil, false
		}
		data[i] = byte(v)
	}
	return data, true
}

func bytesFromIndexed(obj map[string]json.RawMessage) ([]byte, bool) {
	if len(obj) == 0 {
		return nil, false
	}
	data := make([]byte, len(obj))
	for key, raw := range obj {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(obj) || strconv.Itoa(i) != key {
			return nil, false
		}
		var v int
		if err := json.Unmarshal(raw, &v); err != nil || v < 0 || v > 255 {
			return nil, false
		}
		data[i] = byte(v)
	}
	return data, true
}

// splitDataURL returns the base64 part of s, treating everything after the
// first comma as payload, plus the media type when s is a data URL.
func splitDataURL(s string) (payload, mediaType string, hasPrefix bool) {
	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return s, "", false
	}
	header := s[:idx]
	if strings.HasPrefix(header, "data:") {
		mediaType = strings.TrimPrefix(header, "data:")
		if semi := strings.IndexByte(mediaType, ';'); semi >= 0 {
			mediaType = mediaType[:semi]
		}
	}
	return s[idx+1:], mediaType, true
}

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

// decodeBase64 accepts padded and unpadded, standard and URL-safe alphabets,
// with embedded whitespace. Anything else is rejected.
func decodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	for _, enc := range base64Encodings {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, ErrInvalidBase64
}
