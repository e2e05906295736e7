package status

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/amasbarry223/blasira-admin/internal/platform/web"
)

const ProbeTimeout = 3 * time.Second

type ComponentStatus struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
	Port    string `json:"port,omitempty"`
}

// HostInfo는 게이트웨이가 돌고 있는 머신 정보입니다
type HostInfo struct {
	Hostname          string  `json:"hostname"`
	Platform          string  `json:"platform"`
	UptimeSeconds     uint64  `json:"uptimeSeconds"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
}

type StatusResponse struct {
	Components map[string]ComponentStatus `json:"components"`
	Hosts      []string                   `json:"hosts"`
	Host       *HostInfo                  `json:"host,omitempty"`
}

type Handler struct {
	client     *http.Client
	backendURL string
	port       string
}

// NewHandler는 backendURL(API 기본 URL)을 점검하는 상태 핸들러를 만듭니다
func NewHandler(client *http.Client, backendURL, port string) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Handler{
		client:     client,
		backendURL: backendURL,
		port:       port,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/status", web.Handler(h.handleStatus))
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) *web.Error {
	components := map[string]ComponentStatus{
		"gateway": {Status: "healthy", Message: "OK", Port: h.port},
		"backend": h.checkBackend(r.Context()),
	}

	return web.JSON(w, http.StatusOK, StatusResponse{
		Components: components,
		Hosts:      h.getAccessibleHosts(),
		Host:       hostInfo(r.Context()),
	})
}

// hostInfo는 조회 실패 시 nil을 반환합니다
func hostInfo(ctx context.Context) *HostInfo {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("[Status] host info unavailable")
		return nil
	}

	result := &HostInfo{
		Hostname:      info.Hostname,
		Platform:      info.Platform,
		UptimeSeconds: info.Uptime,
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		result.MemoryUsedPercent = vm.UsedPercent
	}
	return result
}

// checkBackend는 API가 응답하는지만 봅니다. 5xx가 아니면 정상으로 취급합니다
func (h *Handler) checkBackend(ctx context.Context) ComponentStatus {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	unhealthy := ComponentStatus{Status: "unhealthy", URL: h.backendURL}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.backendURL, nil)
	if err != nil {
		unhealthy.Message = "invalid backend URL"
		return unhealthy
	}

	resp, err := h.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", h.backendURL).Msg("[Status] backend probe failed")
		unhealthy.Message = "backend unreachable"
		return unhealthy
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		unhealthy.Message = fmt.Sprintf("backend returned %d", resp.StatusCode)
		return unhealthy
	}

	return ComponentStatus{Status: "healthy", Message: "OK", URL: h.backendURL}
}

func (h *Handler) getAccessibleHosts() []string {
	hosts := []string{fmt.Sprintf("localhost:%s", h.port)}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return hosts
	}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() || ipNet.IP.To4() == nil {
			continue
		}
		hosts = append(hosts, fmt.Sprintf("%s:%s", ipNet.IP.String(), h.port))
	}

	return hosts
}
