package ooxml

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tjc-lp/xlcore/internal/domain"
)

// SniffMedia reads just the header of an image part to recover its format
// and pixel dimensions. The blank imports register decoders for every
// format OOXML workbooks commonly embed (png/jpeg/gif from the standard
// library, bmp/tiff/webp from golang.org/x/image) with image.DecodeConfig,
// which reads only the header, not the full raster. Open calls this for
// every xl/media/* entry it sees; a part in an unsniffable format (a vector
// .emf/.wmf drawing, for instance) just gets no domain.MediaInfo and stays
// preserve-only pass-through content.
func SniffMedia(data []byte) (domain.MediaInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.MediaInfo{}, fmt.Errorf("ooxml: sniffing media part: %w", err)
	}
	return domain.MediaInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
