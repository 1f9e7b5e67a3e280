// Package formdata recovers named fields and file attachments from a raw
// multipart/form-data body without a full MIME parser. The whole body must
// already be in memory; every lookup is a plain byte scan over it.
//
// Device firmware in the field produces bodies that are frequently sloppy
// (missing terminators, odd headers), so every miss degrades to an absence
// value instead of an error. An ingest request is never rejected because an
// optional attribute could not be located.
package formdata

// SearchForward returns the index of the first occurrence of needle in
// haystack at or after from. The second return value is false when there is
// no occurrence; that is a normal outcome, not a failure.
func SearchForward(haystack, needle []byte, from int) (int, bool) {
	if from < 0 {
		from = 0
	}
	if len(needle) == 0 {
		if from > len(haystack) {
			return 0, false
		}
		return from, true
	}

	for i := from; i+len(needle) <= len(haystack); i++ {
		if matchAt(haystack, needle, i) {
			return i, true
		}
	}

	return 0, false
}

// SearchBackward returns the index of the last occurrence of needle in
// haystack starting at or before before.
func SearchBackward(haystack, needle []byte, before int) (int, bool) {
	if len(needle) == 0 {
		return 0, false
	}

	start := before
	if max := len(haystack) - len(needle); start > max {
		start = max
	}

	for i := start; i >= 0; i-- {
		if matchAt(haystack, needle, i) {
			return i, true
		}
	}

	return 0, false
}

func matchAt(haystack, needle []byte, at int) bool {
	for j := 0; j < len(needle); j++ {
		if haystack[at+j] != needle[j] {
			return false
		}
	}
	return true
}
