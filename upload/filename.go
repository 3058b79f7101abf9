package upload

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewStoredName derives a collision-resistant stored filename from the
// original upload name: `<base>-<uuid>.<ext>` with the extension lower-cased.
// A name without a dot keeps the whole name as base and gets no extension.
// The uuid v4 token makes collisions negligible for the store's lifetime.
func NewStoredName(original string) string {
	name := filepath.Base(original)

	base := name
	ext := ""
	if i := strings.LastIndex(name, "."); i >= 0 {
		base = name[:i]
		ext = strings.ToLower(name[i+1:])
	}
	if base == "" || base == "." {
		base = "file"
	}

	token := uuid.NewString()
	if ext == "" {
		return base + "-" + token
	}
	return base + "-" + token + "." + ext
}
