package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
)

var (
	// ErrMissingFile means the expected multipart field was absent.
	ErrMissingFile = errors.New("no file uploaded")
	// ErrUnsupportedType means the declared MIME type is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFileTooLarge means the file exceeds the configured size cap.
	ErrFileTooLarge = errors.New("file too large")
)

// Validator checks an uploaded file against a per-entity configuration.
// It trusts the declared Content-Type; the bytes are never sniffed.
type Validator struct {
	AllowedTypes []string
	MaxBytes     int64
}

// Validate checks presence, MIME type and size, in that order. A file of
// exactly MaxBytes passes.
func (v Validator) Validate(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrMissingFile
	}

	declared := fh.Header.Get("Content-Type")
	allowed := false
	for _, t := range v.AllowedTypes {
		if strings.EqualFold(t, declared) {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("%w: only %s are allowed", ErrUnsupportedType, strings.Join(v.AllowedTypes, ", "))
	}

	if fh.Size > v.MaxBytes {
		return fmt.Errorf("%w: size should not exceed %d bytes", ErrFileTooLarge, v.MaxBytes)
	}

	return nil
}
