package http

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"

	"github.com/donmikel/logbay/applications/server"
	"github.com/donmikel/logbay/applications/server/domain"
	"github.com/donmikel/logbay/applications/server/services"
)

func NewRouter(svc server.IngestService, logger log.Logger) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/ingest/{device}", IngestHandler(svc, logger)).Methods(http.MethodPut, http.MethodPost)
	r.HandleFunc("/healthz", HealthHandler()).Methods(http.MethodGet)
	return r
}

// IngestHandler receives one device upload. The whole body is read into
// memory before the service runs: the extraction layer scans a materialized
// buffer, there is no streaming path.
func IngestHandler(svc server.IngestService, logger log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		device := mux.Vars(r)["device"]
		if device == "" {
			writeErr(w, errors.New("empty device id"), http.StatusBadRequest)
			return
		}

		boundary, err := boundaryFromContentType(r.Header.Get("Content-Type"))
		if err != nil {
			level.Error(logger).Log("msg", "bad content type",
				"device", device,
				"err", err,
			)
			writeErr(w, err, http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			level.Error(logger).Log("msg", "body read error",
				"device", device,
				"err", err,
			)
			writeErr(w, err, http.StatusInternalServerError)
			return
		}

		result, err := svc.Ingest(r.Context(), domain.UploadRequest{
			DeviceID: device,
			Token:    requestToken(r),
			Boundary: boundary,
			Body:     body,
		})
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				writeErr(w, err, http.StatusUnauthorized)
				return
			}

			level.Error(logger).Log("msg", "Ingest error",
				"device", device,
				"err", err,
			)
			writeErr(w, err, http.StatusInternalServerError)
			return
		}

		level.Info(logger).Log("msg", "upload ingested",
			"device", device,
			"serial", result.SerialNumber,
			"size", humanize.Bytes(uint64(len(body))),
			"stored", len(result.StoredKeys),
		)

		w.WriteHeader(http.StatusNoContent)
	}
}

func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// boundaryFromContentType parses the boundary= parameter out of the
// Content-Type header. The value is handed to the extraction layer verbatim;
// no token-character validation happens here or there.
func boundaryFromContentType(contentType string) (string, error) {
	if contentType == "" {
		return "", errors.New("missing Content-Type")
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("can't parse Content-Type: %w", err)
	}
	if mediaType != "multipart/form-data" {
		return "", fmt.Errorf("unexpected media type %q", mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return "", errors.New("missing multipart boundary")
	}

	return boundary, nil
}

// requestToken accepts the shared token either as a bearer Authorization
// header or the X-Auth-Token header older firmware sends.
func requestToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		return strings.TrimPrefix(h, "Bearer ")
	}

	return r.Header.Get("X-Auth-Token")
}

func writeErr(w http.ResponseWriter, err error, status int) {
	w.WriteHeader(status)
	_, err = w.Write([]byte(err.Error()))
	if err != nil {
		fmt.Println("can't write response ", err)
	}
}
