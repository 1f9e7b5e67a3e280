package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/donmikel/logbay/applications/server"
	"github.com/donmikel/logbay/applications/server/domain"
	"github.com/donmikel/logbay/applications/server/formdata"
	"github.com/donmikel/logbay/applications/server/interfaces"
)

// Field names the device firmware puts into its upload form.
const (
	fieldSerialNumber = "SERIALNUMBER"
	fieldFirmware     = "FIRMWARE"
	fieldDeviceType   = "DEVICETYPE"
	fieldLogFile      = "LOGFILE"
)

const (
	contentTypeLog    = "application/gzip"
	contentTypeStatus = "text/plain"
	contentTypeOther  = "application/octet-stream"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmptyDevice  = errors.New("empty device id")
	ErrNoBoundary   = errors.New("empty multipart boundary")
)

type service struct {
	objectStore interfaces.ObjectStore
	authorizer  interfaces.Authorizer
	clock       interfaces.Clock
	keyPrefix   string
}

func NewService(objectStore interfaces.ObjectStore, authorizer interfaces.Authorizer, clock interfaces.Clock, keyPrefix string) server.IngestService {
	return &service{
		objectStore: objectStore,
		authorizer:  authorizer,
		clock:       clock,
		keyPrefix:   keyPrefix,
	}
}

// Ingest authorizes the upload, pulls the known attributes and attachments
// out of the multipart body and hands each attachment to the object store.
// A missing attribute or a missing log attachment does not fail the ingest;
// the device fleet includes firmware revisions that omit either.
func (s *service) Ingest(ctx context.Context, upload domain.UploadRequest) (domain.UploadResult, error) {
	if !s.authorizer.Authorize(upload.Token) {
		return domain.UploadResult{}, ErrUnauthorized
	}
	if upload.DeviceID == "" {
		return domain.UploadResult{}, ErrEmptyDevice
	}
	if upload.Boundary == "" {
		return domain.UploadResult{}, ErrNoBoundary
	}

	serial := formdata.ExtractField(upload.Body, upload.Boundary, fieldSerialNumber)
	firmware := formdata.ExtractField(upload.Body, upload.Boundary, fieldFirmware)
	deviceType := formdata.ExtractField(upload.Body, upload.Boundary, fieldDeviceType)

	metadata := map[string]string{
		"device":       upload.DeviceID,
		"serialnumber": serial,
		"firmware":     firmware,
		"devicetype":   deviceType,
	}

	result := domain.UploadResult{SerialNumber: serial}
	now := s.clock.Now().UTC()

	logPart, ok := formdata.ExtractFilePart(upload.Body, upload.Boundary, fieldLogFile)
	if ok {
		key := s.objectKey(upload.DeviceID, now, logPart.Filename)
		opts := interfaces.PutOptions{ContentType: contentTypeLog, Metadata: metadata}
		if err := s.objectStore.Put(ctx, key, logPart.Content, opts); err != nil {
			return result, fmt.Errorf("can't store log file: %w", err)
		}
		result.StoredKeys = append(result.StoredKeys, key)
	}

	for _, part := range formdata.ExtractAllParts(upload.Body, upload.Boundary) {
		if part.FieldName == fieldLogFile {
			// Already stored above through the named lookup.
			continue
		}

		contentType := contentTypeOther
		if domain.Classify(part.FieldName, part.Filename) == domain.PartStatus {
			contentType = contentTypeStatus
		}

		key := s.objectKey(upload.DeviceID, now, part.Filename)
		opts := interfaces.PutOptions{ContentType: contentType, Metadata: metadata}
		if err := s.objectStore.Put(ctx, key, part.Content, opts); err != nil {
			return result, fmt.Errorf("can't store part %q: %w", part.FieldName, err)
		}
		result.StoredKeys = append(result.StoredKeys, key)
	}

	return result, nil
}

// objectKey builds <prefix>/<device>/<YYYY>/<MM>/<DD>/<filename>.
func (s *service) objectKey(deviceID string, now time.Time, filename string) string {
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%s",
		s.keyPrefix, deviceID, now.Year(), int(now.Month()), now.Day(), filename)
}
