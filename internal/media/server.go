// Package media serves offloaded chat attachments out of GridFS.
package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"chatroom/internal/common"
	"chatroom/internal/dbmongo"
	"chatroom/internal/metrics"
)

// Storage is the read side of dbmongo.MediaStorage.
type Storage interface {
	DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *dbmongo.MediaFile, error)
}

type HTTPServer struct {
	storage Storage
	router  *mux.Router
	log     *slog.Logger
}

func NewHTTPServer(storage Storage) *HTTPServer {
	s := &HTTPServer{
		storage: storage,
		router:  mux.NewRouter(),
		log:     slog.Default().With("component", "media"),
	}

	s.router.HandleFunc("/media/{fileId}", s.serveFile).Methods(http.MethodGet, http.MethodHead)
	s.router.HandleFunc("/health", s.health).Methods(http.MethodGet)
	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	return s
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	body, file, err := s.storage.DownloadFile(r.Context(), fileID)
	switch {
	case errors.Is(err, dbmongo.ErrFileNotFound):
		s.fail(w, http.StatusNotFound, "File not found")
		return
	case err != nil:
		s.log.Error("download failed", "file_id", fileID, "err", err)
		s.fail(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType(file))
	w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	metrics.MediaRequests.WithLabelValues(strconv.Itoa(http.StatusOK)).Inc()

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		s.log.Warn("streaming interrupted", "file_id", fileID, "err", err)
	}
}

// contentType prefers the type recorded at upload time.
func contentType(f *dbmongo.MediaFile) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	return common.ContentTypeFor(f.Filename)
}

func (s *HTTPServer) fail(w http.ResponseWriter, code int, msg string) {
	metrics.MediaRequests.WithLabelValues(strconv.Itoa(code)).Inc()
	http.Error(w, msg, code)
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Media server is healthy"))
}
