package domain

// writeFileFunc is wired in by internal/ooxml's init(), which imports this
// package to operate on Workbook/Sheet/CellStyle — the codec cannot import
// back without an import cycle, so it registers itself here instead.
var writeFileFunc func(*Workbook, string) error

// RegisterWriter installs the surgical-write implementation. Called once,
// from internal/ooxml's init().
func RegisterWriter(fn func(*Workbook, string) error) {
	writeFileFunc = fn
}

// WriteFile writes w to path, reusing every part of a source file the
// workbook was opened from that this library leaves untouched.
func (w *Workbook) WriteFile(path string) error {
	if writeFileFunc == nil {
		return &XLError{Kind: IOError, Input: path, Detail: "no codec registered: import github.com/tjc-lp/xlcore/internal/ooxml (indirectly, via the root package)"}
	}
	return writeFileFunc(w, path)
}
