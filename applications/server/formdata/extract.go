package formdata

import (
	"strings"

	"github.com/donmikel/logbay/applications/server/domain"
)

var crlfCRLF = []byte("\r\n\r\n")

// missReason records which locate step failed. The exported API collapses
// all of them into a single absence value, but keeping them apart lets the
// tests pin down the exact failure mode of a malformed body.
type missReason int

const (
	missNone missReason = iota
	// missNameAttribute: no name="<field>" occurrence anywhere in the body.
	missNameAttribute
	// missOpeningBoundary: no --<boundary> before the name occurrence.
	missOpeningBoundary
	// missHeaderTerminator: no blank line after the opening boundary.
	missHeaderTerminator
	// missClosingBoundary: no CRLF--<boundary> after the content start.
	missClosingBoundary
)

// partSpan is a located part, as offsets into the body.
type partSpan struct {
	headerStart  int
	contentStart int
	contentEnd   int
}

// locateNamedPart finds the part carrying name="<fieldName>" in its header.
//
// The search for the name attribute is unanchored: it matches the first
// occurrence anywhere in the body, then walks backward to the nearest
// preceding --<boundary>. A file part whose raw content happens to contain
// the literal text name="<fieldName>" is therefore misidentified as the
// named part. That is long-standing behavior the device fleet relies on
// being tolerant, kept as-is; ExtractAllParts is the header-scoped path.
func locateNamedPart(body []byte, boundary, fieldName string) (partSpan, missReason) {
	needle := []byte(`name="` + fieldName + `"`)
	at, ok := SearchForward(body, needle, 0)
	if !ok {
		return partSpan{}, missNameAttribute
	}

	delim := []byte("--" + boundary)
	open, ok := SearchBackward(body, delim, at)
	if !ok {
		return partSpan{}, missOpeningBoundary
	}

	headerStart := open + len(delim)
	if headerStart+2 <= len(body) && body[headerStart] == '\r' && body[headerStart+1] == '\n' {
		headerStart += 2
	}

	headerEnd, ok := SearchForward(body, crlfCRLF, headerStart)
	if !ok {
		return partSpan{}, missHeaderTerminator
	}
	contentStart := headerEnd + len(crlfCRLF)

	contentEnd, ok := SearchForward(body, []byte("\r\n--"+boundary), contentStart)
	if !ok {
		return partSpan{}, missClosingBoundary
	}

	return partSpan{headerStart: headerStart, contentStart: contentStart, contentEnd: contentEnd}, missNone
}

// ExtractField returns the trimmed text value of the named field, or the
// empty string when the field (or any token needed to delimit it) cannot be
// located. A present-but-empty field and a missing field are
// indistinguishable to the caller.
func ExtractField(body []byte, boundary, fieldName string) string {
	span, miss := locateNamedPart(body, boundary, fieldName)
	if miss != missNone {
		return ""
	}

	return strings.TrimSpace(string(body[span.contentStart:span.contentEnd]))
}

// ExtractFilePart returns the named attachment's raw bytes and its filename
// (reduced to the basename). The content is returned untrimmed and is never
// interpreted as text. ok is false when any locate step misses, including a
// body truncated before the closing boundary.
func ExtractFilePart(body []byte, boundary, fieldName string) (domain.FilePart, bool) {
	span, miss := locateNamedPart(body, boundary, fieldName)
	if miss != missNone {
		return domain.FilePart{}, false
	}

	_, filename := parsePartHeader(body[span.headerStart : span.contentStart-len(crlfCRLF)])

	return domain.FilePart{
		Filename: filename,
		Content:  body[span.contentStart:span.contentEnd],
	}, true
}

type scanState int

const (
	stateSeekDelimiter scanState = iota
	stateParsingHeaders
	stateCollectingContent
	stateTerminal
)

// ExtractAllParts walks the body once, front to back, and returns every part
// that declared a non-empty filename, in declaration order. Parts without a
// filename (plain text fields) are skipped but still reachable through
// ExtractField.
//
// Unlike ExtractFilePart, a body missing its closing boundary does not make
// the last part absent: the remaining bytes become that part's content.
// Both truncation rules are deliberate and covered by tests; do not align
// one with the other.
func ExtractAllParts(body []byte, boundary string) []domain.Part {
	delim := []byte("--" + boundary)
	closeDelim := []byte("\r\n--" + boundary)

	var parts []domain.Part
	var headerStart, contentStart int
	cursor := 0

	for state := stateSeekDelimiter; state != stateTerminal; {
		switch state {
		case stateSeekDelimiter:
			at, ok := SearchForward(body, delim, cursor)
			if !ok {
				state = stateTerminal
				break
			}
			headerStart = at + len(delim)
			if headerStart+2 <= len(body) && body[headerStart] == '-' && body[headerStart+1] == '-' {
				// Closing marker --<boundary>--, the body is exhausted.
				state = stateTerminal
				break
			}
			if headerStart+2 <= len(body) && body[headerStart] == '\r' && body[headerStart+1] == '\n' {
				headerStart += 2
			}
			state = stateParsingHeaders

		case stateParsingHeaders:
			headerEnd, ok := SearchForward(body, crlfCRLF, headerStart)
			if !ok {
				state = stateTerminal
				break
			}
			contentStart = headerEnd + len(crlfCRLF)
			state = stateCollectingContent

		case stateCollectingContent:
			contentEnd, ok := SearchForward(body, closeDelim, contentStart)
			if !ok {
				// No closing boundary: the rest of the buffer is the
				// final part's content.
				contentEnd = len(body)
			}

			fieldName, filename := parsePartHeader(body[headerStart : contentStart-len(crlfCRLF)])
			if filename != "" {
				parts = append(parts, domain.Part{
					FieldName: fieldName,
					Filename:  filename,
					Content:   body[contentStart:contentEnd],
				})
			}

			cursor = contentEnd
			state = stateSeekDelimiter
		}
	}

	return parts
}
