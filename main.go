package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/amasbarry223/blasira-admin/internal/config"
	"github.com/amasbarry223/blasira-admin/internal/edge"
	"github.com/amasbarry223/blasira-admin/internal/guard"
	"github.com/amasbarry223/blasira-admin/internal/platform/logging"
	"github.com/amasbarry223/blasira-admin/internal/platform/web"
	"github.com/amasbarry223/blasira-admin/internal/spa"
	"github.com/amasbarry223/blasira-admin/internal/status"
	"github.com/amasbarry223/blasira-admin/internal/system"
)

// ldflags로 주입
var (
	goEnv        = "development"
	appVersion   = "dev"
	appCommit    = ""
	appBuildDate = ""
)

const shutdownTimeout = 10 * time.Second

func main() {
	logging.Setup(logging.Options{JSON: goEnv == "production", Debug: goEnv != "production"})

	log.Info().Msg("[Main] Starting Server...")
	log.Info().Msgf("[Main] environment: %s", goEnv)

	config.SetConfig(goEnv)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler, err := newServer(config.Conf, registry, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("[Main] Failed to create server")
	}

	srv := &http.Server{
		Addr:              ":" + config.Conf.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Msgf("[Main] Server is running on port %s", config.Conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("[Main] Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("[Main] Server failed")
	}
	log.Info().Msg("[Main] Server stopped")
}

// newServer는 게이트웨이 핸들러를 조립합니다.
// 순서: access log -> security headers -> edge -> mux
func newServer(conf config.Config, reg prometheus.Registerer, gatherer prometheus.Gatherer) (http.Handler, error) {
	mux := http.NewServeMux()

	config.NewHandler(conf).RegisterRoutes(mux)
	status.NewHandler(&http.Client{Timeout: status.ProbeTimeout}, conf.API.BaseURL, conf.Server.Port).RegisterRoutes(mux)
	system.NewHandler(system.Meta{
		Version:   appVersion,
		Commit:    appCommit,
		BuildDate: appBuildDate,
	}).RegisterRoutes(mux)

	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/api/", web.Handler(handleUnknownAPI))

	spaHandler, err := spa.NewHandler(WebDist, "web/dist")
	if err != nil {
		return nil, err
	}
	mux.Handle("/", spaHandler)

	middleware := edge.New(edge.Config{
		Routes: guard.Routes{
			LoginPath:       conf.Edge.LoginPath,
			ProtectedPrefix: conf.Edge.ProtectedPrefix,
			LandingPath:     conf.Edge.LandingPath,
		},
		FailClosed: conf.Edge.FailClosed,
	}, edge.NewMetrics(reg))

	return web.AccessLog(edge.SecurityHeaders(conf.API.BaseURL)(middleware.Handler(mux))), nil
}

func handleUnknownAPI(w http.ResponseWriter, r *http.Request) *web.Error {
	return &web.Error{Code: http.StatusNotFound, Message: "Not Found"}
}
