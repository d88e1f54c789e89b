package handlers

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
)

const indexFile = "index.html"

// StaticHandler serves the storefront files. Unknown paths get the SPA shell
// so client-side routes survive a reload.
type StaticHandler struct {
	root   fs.FS
	files  http.Handler
	logger *slog.Logger
}

// NewStaticHandler serves files from dir.
func NewStaticHandler(dir string, logger *slog.Logger) *StaticHandler {
	return NewStaticHandlerFS(os.DirFS(dir), logger)
}

// NewStaticHandlerFS serves files from an fs.FS.
func NewStaticHandlerFS(root fs.FS, logger *slog.Logger) *StaticHandler {
	return &StaticHandler{
		root:   root,
		files:  http.FileServer(http.FS(root)),
		logger: logger,
	}
}

// ServeHTTP handles GET /*
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name != "" {
		if info, err := fs.Stat(h.root, name); err == nil && !info.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	}

	index, err := fs.ReadFile(h.root, indexFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.Error("failed to read storefront shell", "error", err)
		}
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(index); err != nil {
		h.logger.Error("failed to write storefront shell", "error", err)
	}
}
