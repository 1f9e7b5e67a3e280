package server

import (
	"context"

	"github.com/donmikel/logbay/applications/server/domain"
)

type IngestService interface {
	Ingest(ctx context.Context, upload domain.UploadRequest) (domain.UploadResult, error)
}
