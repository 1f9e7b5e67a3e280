package domain

// UploadRequest is one device upload, fully received: the raw body plus the
// boundary token taken from the Content-Type header.
type UploadRequest struct {
	DeviceID string
	Token    string
	Boundary string
	Body     []byte
}

// UploadResult reports what one ingest stored.
type UploadResult struct {
	SerialNumber string
	StoredKeys   []string
}
