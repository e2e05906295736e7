package config

import (
	"net/http"

	"github.com/amasbarry223/blasira-admin/internal/platform/web"
)

// Handler는 대시보드 셸이 읽는 공개 설정을 제공합니다
type Handler struct {
	conf Config
}

// PublicConfigResponse에는 브라우저에 노출해도 되는 값만 담습니다
type PublicConfigResponse struct {
	APIURL          string `json:"apiUrl"`
	LoginPath       string `json:"loginPath"`
	ProtectedPrefix string `json:"protectedPrefix"`
	LandingPath     string `json:"landingPath"`
	Production      bool   `json:"production"`
}

func NewHandler(conf Config) *Handler {
	return &Handler{conf: conf}
}

// RegisterRoutes는 라우트를 등록합니다
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/config", web.Handler(h.GetConfig))
}

// GetConfig는 현재 설정을 반환합니다
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) *web.Error {
	return web.JSON(w, http.StatusOK, PublicConfigResponse{
		APIURL:          h.conf.API.BaseURL,
		LoginPath:       h.conf.Edge.LoginPath,
		ProtectedPrefix: h.conf.Edge.ProtectedPrefix,
		LandingPath:     h.conf.Edge.LandingPath,
		Production:      h.conf.Production(),
	})
}
