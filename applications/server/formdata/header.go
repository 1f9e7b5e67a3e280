package formdata

import (
	"bytes"
	"strings"
)

var (
	nameAttr     = []byte(`name="`)
	filenameAttr = []byte(`filename="`)
)

// parsePartHeader pulls the field name and filename out of one part's raw
// header block (the bytes between the boundary line and the blank line).
// Attribute names match case-insensitively. The filename keeps only the last
// /-delimited segment; some devices send full on-device paths. Either value
// may be empty when the attribute is not present.
func parsePartHeader(header []byte) (fieldName, filename string) {
	lowered := bytes.ToLower(header)

	if at, ok := SearchForward(lowered, nameAttr, 0); ok {
		fieldName = quotedValue(header, at+len(nameAttr))
	}

	if at, ok := SearchForward(lowered, filenameAttr, 0); ok {
		filename = basename(quotedValue(header, at+len(filenameAttr)))
	}

	return fieldName, filename
}

// quotedValue reads header bytes from start up to the closing quote.
func quotedValue(header []byte, start int) string {
	end, ok := SearchForward(header, []byte(`"`), start)
	if !ok {
		return ""
	}
	return string(header[start:end])
}

func basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
