// Package upload implements the file-upload workflow: validation, stored
// name generation, and the compensating-action sequences that keep the
// filesystem and the database from diverging. A record must never reference
// a file missing from disk; unreferenced files on disk are a tolerated leak.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/inkwell-cms/inkwell/models"
)

// ErrStore marks filesystem failures while writing an upload, so callers can
// tell them apart from persistence errors.
var ErrStore = errors.New("upload storage failure")

// Store persists uploaded files into a single directory. The directory is
// explicit configuration, never derived from the process location.
type Store struct {
	dir string
	log *zap.SugaredLogger
}

// NewStore joins baseDir and subDir and creates the directory if missing.
// Creation is idempotent.
func NewStore(baseDir, subDir string, log *zap.SugaredLogger) (*Store, error) {
	dir := filepath.Join(baseDir, subDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the on-disk path for a stored name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Exists reports whether a stored name is present on disk.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Save copies the multipart content to dir/name. A partial write is removed
// before the error is returned.
func (s *Store) Save(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer src.Close()

	path := s.Path(name)
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}

// Remove deletes a stored name. A file that is already gone is not an error.
func (s *Store) Remove(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// stored builds the StoredFile metadata for an upload.
func stored(fh *multipart.FileHeader) models.StoredFile {
	return models.StoredFile{
		OriginalName: filepath.Base(fh.Filename),
		StoredName:   NewStoredName(fh.Filename),
		MimeType:     fh.Header.Get("Content-Type"),
		SizeBytes:    fh.Size,
	}
}

// CommitNew writes the upload to disk and then runs persist with its
// metadata. If persist fails the new file is removed again, so a failed
// record insert leaves no file behind. Removal on the failure path is best
// effort and logged when it fails.
func (s *Store) CommitNew(fh *multipart.FileHeader, persist func(models.StoredFile) error) (models.StoredFile, error) {
	file := stored(fh)

	if err := s.Save(fh, file.StoredName); err != nil {
		return models.StoredFile{}, err
	}

	if err := persist(file); err != nil {
		if rmErr := s.Remove(file.StoredName); rmErr != nil {
			s.log.Warnw("rollback: could not remove new upload", "file", file.StoredName, "error", rmErr)
		}
		return models.StoredFile{}, err
	}

	return file, nil
}

// ReplaceWith writes the upload under a fresh name (never in place), runs
// persist, and only then deletes oldName. If persist fails the new file is
// removed and the old file stays untouched. A failed old-file delete after a
// successful persist is logged only: the record already points at the new
// file, so the stale file is a disk-space leak, not a correctness problem.
func (s *Store) ReplaceWith(fh *multipart.FileHeader, oldName string, persist func(models.StoredFile) error) (models.StoredFile, error) {
	file, err := s.CommitNew(fh, persist)
	if err != nil {
		return models.StoredFile{}, err
	}

	if oldName != "" {
		if err := s.Remove(oldName); err != nil {
			s.log.Warnw("stale upload not removed after replace", "file", oldName, "error", err)
		}
	}

	return file, nil
}

// DeleteWith deletes oldName from disk first and only then runs remove, the
// record deletion. If the file delete fails, remove is never called, so this
// path cannot turn a referenced file into a missing one. A crash between the
// two steps still leaves a record pointing at a deleted file; that window is
// a known gap of the file-then-record ordering.
func (s *Store) DeleteWith(oldName string, remove func() error) error {
	if oldName != "" {
		if err := os.Remove(s.Path(oldName)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
	}
	return remove()
}
