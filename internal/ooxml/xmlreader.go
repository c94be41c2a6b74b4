package ooxml

import (
	"bytes"
	"encoding/xml"
	"io"

	"golang.org/x/net/html/charset"
)

// decodeXMLPart returns an *xml.Decoder over data that transcodes non-UTF-8
// parts on the fly. OOXML parts declare UTF-8 almost universally, but a
// handful of tools (older exporters, some locale-specific legacy writers)
// emit windows-1252 or other single-byte Latin encodings with a matching
// <?xml ... encoding="..."?> declaration; charset.NewReaderLabel resolves
// that declared label to the right golang.org/x/text/encoding transcoder so
// Unmarshal never sees anything but well-formed UTF-8.
func decodeXMLPart(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		return charset.NewReaderLabel(label, input)
	}
	return dec
}

// unmarshalXMLPart is xml.Unmarshal with decodeXMLPart's charset handling,
// used for docProps/core.xml and docProps/app.xml. Open also decodes
// xl/styles.xml through decodeXMLPart directly. The workbook, relationships,
// worksheet, shared-strings and table codecs call plain xml.Unmarshal, so
// they accept only UTF-8 parts.
func unmarshalXMLPart(data []byte, v interface{}) error {
	return decodeXMLPart(data).Decode(v)
}
