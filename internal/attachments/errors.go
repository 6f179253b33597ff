package attachments

import "errors"

var (
	ErrNoAttachments      = errors.New("no attachments found")
	ErrIndexOutOfRange    = errors.New("attachment index out of range")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInvalidIndex       = errors.New("invalid attachment index")
	ErrMissingData        = errors.New("attachment data is missing")
	ErrInvalidData        = errors.New("invalid attachment data format")
	ErrInvalidBase64      = errors.New("attachment data is not valid base64")
	ErrSizeMismatch       = errors.New("attachment size does not match data length")
	ErrTooManyAttachments = errors.New("too many attachments")
)
