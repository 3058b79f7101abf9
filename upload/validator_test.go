package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testValidator(maxBytes int64) Validator {
	return Validator{
		AllowedTypes: []string{"image/jpeg", "image/jpg", "image/png"},
		MaxBytes:     maxBytes,
	}
}

func TestValidateAccept(t *testing.T) {
	v := testValidator(1024)

	fh := fileHeader(t, "photo.png", "image/png", bytes.Repeat([]byte{0x1}, 512))
	assert.NoError(t, v.Validate(fh))
}

func TestValidateSizeBoundary(t *testing.T) {
	v := testValidator(1024)

	exactly := fileHeader(t, "photo.png", "image/png", bytes.Repeat([]byte{0x1}, 1024))
	assert.NoError(t, v.Validate(exactly), "a file of exactly the limit must pass")

	over := fileHeader(t, "photo.png", "image/png", bytes.Repeat([]byte{0x1}, 1025))
	err := v.Validate(over)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Contains(t, err.Error(), "1024", "error should name the limit")
}

func TestValidateMissingFile(t *testing.T) {
	v := testValidator(1024)

	err := v.Validate(nil)
	assert.ErrorIs(t, err, ErrMissingFile)
}

func TestValidateUnsupportedType(t *testing.T) {
	v := testValidator(1024)

	fh := fileHeader(t, "anim.gif", "image/gif", []byte("gif"))
	err := v.Validate(fh)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "image/png", "error should list the allowed types")
}

func TestValidateTypeCaseInsensitive(t *testing.T) {
	v := testValidator(1024)

	fh := fileHeader(t, "photo.png", "IMAGE/PNG", []byte("png"))
	assert.NoError(t, v.Validate(fh))
}
