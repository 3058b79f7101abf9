package upload

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), "thumbnails", zap.NewNop().Sugar())
	require.NoError(t, err)
	return s
}

func TestNewStoreIdempotent(t *testing.T) {
	base := t.TempDir()
	_, err := NewStore(base, "covers", zap.NewNop().Sugar())
	require.NoError(t, err)
	_, err = NewStore(base, "covers", zap.NewNop().Sugar())
	assert.NoError(t, err, "creating over an existing directory must not fail")
}

func TestCommitNewSuccess(t *testing.T) {
	s := testStore(t)
	fh := fileHeader(t, "photo.png", "image/png", []byte("png-bytes"))

	var persisted models.StoredFile
	file, err := s.CommitNew(fh, func(f models.StoredFile) error {
		persisted = f
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "photo.png", file.OriginalName)
	assert.Equal(t, "image/png", file.MimeType)
	assert.Equal(t, int64(len("png-bytes")), file.SizeBytes)
	assert.NotEqual(t, file.OriginalName, file.StoredName)
	assert.Equal(t, file, persisted)
	assert.True(t, s.Exists(file.StoredName))

	content, err := os.ReadFile(s.Path(file.StoredName))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), content)
}

func TestCommitNewRollsBackOnPersistFailure(t *testing.T) {
	s := testStore(t)
	fh := fileHeader(t, "photo.png", "image/png", []byte("png-bytes"))

	var written string
	_, err := s.CommitNew(fh, func(f models.StoredFile) error {
		written = f.StoredName
		require.True(t, s.Exists(f.StoredName), "file must be on disk when persist runs")
		return errors.New("duplicate key")
	})
	require.Error(t, err)
	assert.False(t, s.Exists(written), "a failed persist must remove the written file")
}

func TestReplaceWithSuccess(t *testing.T) {
	s := testStore(t)

	old := "old-thumbnail.png"
	require.NoError(t, os.WriteFile(s.Path(old), []byte("old"), 0o644))

	fh := fileHeader(t, "new.png", "image/png", []byte("new"))
	file, err := s.ReplaceWith(fh, old, func(models.StoredFile) error { return nil })
	require.NoError(t, err)

	assert.True(t, s.Exists(file.StoredName), "new file must exist after replace")
	assert.False(t, s.Exists(old), "old file must be gone after a successful replace")
}

func TestReplaceWithPersistFailureKeepsOld(t *testing.T) {
	s := testStore(t)

	old := "old-thumbnail.png"
	require.NoError(t, os.WriteFile(s.Path(old), []byte("old"), 0o644))

	fh := fileHeader(t, "new.png", "image/png", []byte("new"))

	var written string
	_, err := s.ReplaceWith(fh, old, func(f models.StoredFile) error {
		written = f.StoredName
		return errors.New("update rejected")
	})
	require.Error(t, err)

	assert.True(t, s.Exists(old), "old file must survive a failed replace")
	assert.False(t, s.Exists(written), "new file must be rolled back on a failed replace")

	content, err := os.ReadFile(s.Path(old))
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), content, "old content must be untouched")
}

func TestDeleteWithRemovesFileThenRecord(t *testing.T) {
	s := testStore(t)

	name := "thumb.png"
	require.NoError(t, os.WriteFile(s.Path(name), []byte("x"), 0o644))

	recordDeleted := false
	err := s.DeleteWith(name, func() error {
		assert.False(t, s.Exists(name), "file goes before the record")
		recordDeleted = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, recordDeleted)
}

func TestDeleteWithMissingFileStillDeletesRecord(t *testing.T) {
	s := testStore(t)

	recordDeleted := false
	err := s.DeleteWith("never-existed.png", func() error {
		recordDeleted = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, recordDeleted, "an already-gone file must not block the record delete")
}

func TestDeleteWithNoFileReference(t *testing.T) {
	s := testStore(t)

	recordDeleted := false
	require.NoError(t, s.DeleteWith("", func() error {
		recordDeleted = true
		return nil
	}))
	assert.True(t, recordDeleted)
}

func TestDeleteWithAbortsOnFileError(t *testing.T) {
	s := testStore(t)

	// A non-empty directory under the stored name makes os.Remove fail with
	// a real I/O error rather than "not found".
	name := "stuck"
	require.NoError(t, os.MkdirAll(s.Path(name), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Path(name), "child"), []byte("x"), 0o644))

	err := s.DeleteWith(name, func() error {
		t.Fatal("record delete must not run when the file delete fails")
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStore)
}

func TestDeleteWithPropagatesRecordError(t *testing.T) {
	s := testStore(t)

	name := "thumb.png"
	require.NoError(t, os.WriteFile(s.Path(name), []byte("x"), 0o644))

	dbErr := errors.New("db down")
	err := s.DeleteWith(name, func() error { return dbErr })
	assert.ErrorIs(t, err, dbErr)
}
