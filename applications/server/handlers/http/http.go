package http

import (
	"net/http"

	"github.com/go-kit/log"

	"github.com/donmikel/logbay/applications/server"
	"github.com/donmikel/logbay/applications/server/config"
)

func NewHTTPServer(conf config.Api, ingestService server.IngestService, logger log.Logger) *http.Server {
	mux := NewRouter(ingestService, logger)
	return &http.Server{
		Addr:    conf.HTTPAddr,
		Handler: mux,
	}
}
