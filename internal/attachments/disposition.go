package attachments

import (
	"fmt"
	"net/url"
	"strings"
)

// EncodeFilename percent-encodes everything outside the unreserved set, so
// the result is safe both inside a quoted-string and as an RFC 5987
// ext-value.
func EncodeFilename(name string) string {
	return strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

// ContentDisposition renders an inline disposition carrying the filename in
// both the plain and the UTF-8 extended parameter.
func ContentDisposition(filename string) string {
	if filename == "" {
		filename = DefaultFilename
	}
	encoded := EncodeFilename(filename)
	return fmt.Sprintf(`inline; filename="%s"; filename*=UTF-8''%s`, encoded, encoded)
}
