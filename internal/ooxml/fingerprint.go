package ooxml

import (
	"crypto/sha256"
	"io"
	"os"

	"golang.org/x/crypto/sha3"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// Fingerprint computes the size and SHA-256 digest of the file at path, the
// primary identity check a surgical write verifies before it trusts its
// PartManifest still describes the bytes on disk.
func Fingerprint(path string) (domain.SourceFingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.SourceFingerprint{}, err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return domain.SourceFingerprint{}, err
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return domain.SourceFingerprint{Size: n, SHA256: sum}, nil
}

// SecondaryDigest computes a SHA3-256 digest of data. The reader stamps one
// onto every domain.PartEntry at Open time; PreservedPartStore.StreamTo
// recomputes it over the bytes it is about to copy through unchanged and
// rejects the write as SourceMutated on a mismatch, catching a part that
// changed on disk between Open and write even though the whole-file
// SHA-256 fingerprint check above already passed (e.g. a tool that rewrote
// the archive but happened to reproduce its total size and digest while
// editing one inner part).
func SecondaryDigest(data []byte) [32]byte {
	return sha3.Sum256(data)
}

// Verify reports whether the file at path still matches fp.
func Verify(path string, fp domain.SourceFingerprint) (bool, error) {
	got, err := Fingerprint(path)
	if err != nil {
		return false, err
	}
	return got.Size == fp.Size && got.SHA256 == fp.SHA256, nil
}
