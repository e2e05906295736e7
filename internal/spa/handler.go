// Package spa serves the embedded dashboard bundle. Unknown client-side
// routes such as /admin/users get the shell; missing assets stay 404.
package spa

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/rs/zerolog/log"
)

const indexFile = "index.html"

type Handler struct {
	files   http.Handler
	shell   []byte
	modTime time.Time
}

// NewHandler fails when dir holds no index.html.
func NewHandler(assets fs.FS, dir string) (*Handler, error) {
	distFS, err := fs.Sub(assets, dir)
	if err != nil {
		return nil, err
	}
	shell, err := fs.ReadFile(distFS, indexFile)
	if err != nil {
		return nil, err
	}

	var modTime time.Time
	if info, err := fs.Stat(distFS, indexFile); err == nil {
		modTime = info.ModTime()
	}

	return &Handler{
		files:   http.FileServer(http.FS(distFS)),
		shell:   shell,
		modTime: modTime,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" || r.URL.Path == "/"+indexFile {
		h.serveShell(w, r)
		return
	}

	rec := &notFoundInterceptor{ResponseWriter: w}
	h.files.ServeHTTP(rec, r)
	if !rec.notFound {
		return
	}

	// 확장자가 있으면 실제 파일 요청으로 보고 404 유지
	if path.Ext(r.URL.Path) != "" {
		log.Debug().Str("path", r.URL.Path).Msg("[SPA] asset not found")
		http.NotFound(w, r)
		return
	}
	h.serveShell(w, r)
}

// serveShell marks the shell no-store so every navigation passes the edge again.
func (h *Handler) serveShell(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, indexFile, h.modTime, bytes.NewReader(h.shell))
}

// notFoundInterceptor swallows the file server's 404 so the caller can
// answer instead. Other responses pass through untouched.
type notFoundInterceptor struct {
	http.ResponseWriter
	notFound    bool
	wroteHeader bool
}

func (w *notFoundInterceptor) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	if status == http.StatusNotFound {
		w.notFound = true
		// FileServer already set text/plain for its error body
		w.Header().Del("Content-Type")
		return
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *notFoundInterceptor) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.notFound {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}
