package domain

import "strings"

// Part is one named segment of a multipart/form-data body. Content is a
// read-only view into the request buffer, not a copy.
type Part struct {
	FieldName string
	Filename  string
	Content   []byte
}

// FilePart is a named attachment recovered from an upload body.
type FilePart struct {
	Filename string
	Content  []byte
}

type PartKind int

const (
	PartOther PartKind = iota
	PartStatus
)

func (k PartKind) String() string {
	if k == PartStatus {
		return "status"
	}
	return "other"
}

// Classify tags a part as a device status report or an ordinary attachment.
func Classify(fieldName, filename string) PartKind {
	if strings.Contains(strings.ToLower(fieldName), "status") ||
		strings.Contains(strings.ToLower(filename), "status") ||
		strings.HasSuffix(filename, ".txt") {
		return PartStatus
	}

	return PartOther
}
