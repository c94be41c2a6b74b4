package ooxml

import (
	"archive/zip"
	"fmt"
	"io"
	"sync"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// PreservedPartStore gives the writer byte-exact access to every ZIP entry
// the reader saw but did not parse into the domain model. It reopens the
// source archive lazily and guards the handle with a mutex, the way a
// worksheet reader guards a shared style cache across concurrent cell
// lookups: callers on the surgical write path stream several unrelated
// parts through in sequence, not necessarily from one goroutine.
type PreservedPartStore struct {
	path string

	mu     sync.Mutex
	zr     *zip.ReadCloser
	byName map[string]*zip.File
}

// NewPreservedPartStore builds a store over the ZIP archive at path. The
// archive is not opened until the first call that reads it (Open, Exists,
// StreamTo or ListAll).
func NewPreservedPartStore(path string) *PreservedPartStore {
	return &PreservedPartStore{path: path}
}

func (s *PreservedPartStore) ensureOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.zr != nil {
		return nil
	}
	zr, err := zip.OpenReader(s.path)
	if err != nil {
		return fmt.Errorf("ooxml: reopening source archive: %w", err)
	}
	byName := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		byName[f.Name] = f
	}
	s.zr = zr
	s.byName = byName
	return nil
}

// Exists reports whether name is present in the source archive.
func (s *PreservedPartStore) Exists(name string) (bool, error) {
	if err := s.ensureOpen(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byName[name]
	return ok, nil
}

// Open returns a reader over the named part's raw (decompressed) bytes.
// The caller must Close it.
func (s *PreservedPartStore) Open(name string) (io.ReadCloser, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	f, ok := s.byName[name]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("ooxml: preserved part %q not found in source archive", name)
	}
	return f.Open()
}

// StreamTo copies the named part's raw bytes to w, verifying the copy
// against want's recorded size and SHA3-256 secondary digest before
// emitting it (the size check spec.md §4.4 requires, extended with a
// content hash): a mismatch means the source file changed on disk between
// Open and this write. A size mismatch is reported as SizeMismatch and a
// digest mismatch as SourceMutated, instead of silently streaming corrupt
// or stale bytes into the new archive.
func (s *PreservedPartStore) StreamTo(w io.Writer, name string, want domain.PartEntry) error {
	rc, err := s.Open(name)
	if err != nil {
		return err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}
	if uint64(len(data)) != want.UncompressedSize {
		return &domain.XLError{
			Kind:   domain.SizeMismatch,
			Input:  name,
			Detail: "preserved-part copy size disagrees with manifest",
		}
	}
	if SecondaryDigest(data) != want.SecondaryDigest {
		return &domain.XLError{
			Kind:   domain.SourceMutated,
			Input:  name,
			Detail: "preserved part content changed since the source workbook was opened",
		}
	}
	_, err = w.Write(data)
	return err
}

// ListAll returns the name of every entry in the source archive, in
// original ZIP order.
func (s *PreservedPartStore) ListAll() ([]string, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.zr.File))
	for i, f := range s.zr.File {
		out[i] = f.Name
	}
	return out, nil
}

// Close releases the underlying ZIP handle, if one was opened.
func (s *PreservedPartStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.zr == nil {
		return nil
	}
	err := s.zr.Close()
	s.zr = nil
	s.byName = nil
	return err
}
