package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donmikel/logbay/applications/server/domain"
	"github.com/donmikel/logbay/applications/server/interfaces"
)

const boundary = "------devboundary"

type recordedPut struct {
	key  string
	data []byte
	opts interfaces.PutOptions
}

type recordingStore struct {
	puts []recordedPut
	err  error
}

func (s *recordingStore) Put(ctx context.Context, key string, data []byte, opts interfaces.PutOptions) error {
	if s.err != nil {
		return s.err
	}
	s.puts = append(s.puts, recordedPut{key: key, data: data, opts: opts})
	return nil
}

type allowAll struct{}

func (allowAll) Authorize(string) bool { return true }

type denyAll struct{}

func (denyAll) Authorize(string) bool { return false }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testClock() fixedClock {
	return fixedClock{t: time.Date(2024, time.March, 9, 15, 4, 5, 0, time.UTC)}
}

type testPart struct {
	name     string
	filename string
	content  []byte
}

func buildBody(boundary string, parts ...testPart) []byte {
	var body []byte
	for _, p := range parts {
		body = append(body, []byte("--"+boundary+"\r\n")...)
		disposition := fmt.Sprintf(`Content-Disposition: form-data; name="%s"`, p.name)
		if p.filename != "" {
			disposition += fmt.Sprintf(`; filename="%s"`, p.filename)
		}
		body = append(body, []byte(disposition+"\r\n\r\n")...)
		body = append(body, p.content...)
		body = append(body, []byte("\r\n")...)
	}
	body = append(body, []byte("--"+boundary+"--\r\n")...)

	return body
}

func TestIngestStoresLogAndSecondaryParts(t *testing.T) {
	store := &recordingStore{}
	svc := NewService(store, allowAll{}, testClock(), "uploads")

	logContent := []byte{0x1F, 0x8B, 0x03}
	body := buildBody(boundary,
		testPart{name: "SERIALNUMBER", content: []byte("12345")},
		testPart{name: "FIRMWARE", content: []byte("v2.1.0")},
		testPart{name: "LOGFILE", filename: "a.log.gz", content: logContent},
		testPart{name: "STATUS", filename: "status.txt", content: []byte("battery ok")},
	)

	result, err := svc.Ingest(context.Background(), domain.UploadRequest{
		DeviceID: "dev-1",
		Token:    "any",
		Boundary: boundary,
		Body:     body,
	})
	require.NoError(t, err)

	assert.Equal(t, "12345", result.SerialNumber)
	assert.Equal(t, []string{
		"uploads/dev-1/2024/03/09/a.log.gz",
		"uploads/dev-1/2024/03/09/status.txt",
	}, result.StoredKeys)

	require.Len(t, store.puts, 2)

	logPut := store.puts[0]
	assert.Equal(t, "uploads/dev-1/2024/03/09/a.log.gz", logPut.key)
	assert.Equal(t, logContent, logPut.data)
	assert.Equal(t, "application/gzip", logPut.opts.ContentType)
	assert.Equal(t, "12345", logPut.opts.Metadata["serialnumber"])
	assert.Equal(t, "v2.1.0", logPut.opts.Metadata["firmware"])
	assert.Equal(t, "dev-1", logPut.opts.Metadata["device"])

	statusPut := store.puts[1]
	assert.Equal(t, "uploads/dev-1/2024/03/09/status.txt", statusPut.key)
	assert.Equal(t, []byte("battery ok"), statusPut.data)
	assert.Equal(t, "text/plain", statusPut.opts.ContentType)
}

func TestIngestUnauthorized(t *testing.T) {
	store := &recordingStore{}
	svc := NewService(store, denyAll{}, testClock(), "uploads")

	_, err := svc.Ingest(context.Background(), domain.UploadRequest{
		DeviceID: "dev-1",
		Boundary: boundary,
		Body:     buildBody(boundary),
	})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, store.puts)
}

func TestIngestValidation(t *testing.T) {
	svc := NewService(&recordingStore{}, allowAll{}, testClock(), "uploads")

	_, err := svc.Ingest(context.Background(), domain.UploadRequest{Boundary: boundary})
	assert.ErrorIs(t, err, ErrEmptyDevice)

	_, err = svc.Ingest(context.Background(), domain.UploadRequest{DeviceID: "dev-1"})
	assert.ErrorIs(t, err, ErrNoBoundary)
}

// A device that sends no log attachment and no attributes still gets its
// upload accepted; nothing is stored and nothing fails.
func TestIngestTolerantOfMissingParts(t *testing.T) {
	store := &recordingStore{}
	svc := NewService(store, allowAll{}, testClock(), "uploads")

	result, err := svc.Ingest(context.Background(), domain.UploadRequest{
		DeviceID: "dev-1",
		Boundary: boundary,
		Body:     buildBody(boundary, testPart{name: "UNRELATED", content: []byte("x")}),
	})

	require.NoError(t, err)
	assert.Equal(t, "", result.SerialNumber)
	assert.Empty(t, result.StoredKeys)
	assert.Empty(t, store.puts)
}

func TestIngestStoreErrorIsWrapped(t *testing.T) {
	store := &recordingStore{err: fmt.Errorf("disk full")}
	svc := NewService(store, allowAll{}, testClock(), "uploads")

	body := buildBody(boundary,
		testPart{name: "LOGFILE", filename: "a.log.gz", content: []byte{0x1F, 0x8B}},
	)

	_, err := svc.Ingest(context.Background(), domain.UploadRequest{
		DeviceID: "dev-1",
		Boundary: boundary,
		Body:     body,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't store log file")
}
