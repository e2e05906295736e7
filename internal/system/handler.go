package system

import (
	"net/http"
	"runtime"
	"strings"

	"github.com/amasbarry223/blasira-admin/internal/platform/web"
)

// Meta는 빌드 시 ldflags로 주입됩니다
type Meta struct {
	Version   string
	Commit    string
	BuildDate string
}

// Handler는 system API 핸들러입니다
type Handler struct {
	meta Meta
}

func NewHandler(meta Meta) *Handler {
	version := strings.TrimSpace(meta.Version)
	if version == "" {
		version = "dev"
	}

	return &Handler{
		meta: Meta{
			Version:   version,
			Commit:    strings.TrimSpace(meta.Commit),
			BuildDate: strings.TrimSpace(meta.BuildDate),
		},
	}
}

func (h *Handler) Meta() Meta {
	return h.meta
}

// RegisterRoutes는 라우트를 등록합니다
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/system/version", web.Handler(h.GetVersion))
}

func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) *web.Error {
	return web.JSON(w, http.StatusOK, map[string]string{
		"version":   h.meta.Version,
		"commit":    h.meta.Commit,
		"buildDate": h.meta.BuildDate,
		"goVersion": runtime.Version(),
	})
}
