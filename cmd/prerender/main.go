package main

import (
	"log"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/database"
	"github.com/jobboard/prerender/internal/handler"
	"github.com/jobboard/prerender/internal/job"
	"github.com/jobboard/prerender/internal/metrics"
	"github.com/jobboard/prerender/internal/prerender"
	"github.com/jobboard/prerender/internal/resource"
	"github.com/jobboard/prerender/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	cache, err := prerender.NewRenderCache(cfg.RenderCacheTTL, cfg.PrerenderCacheMaxMB)
	if err != nil {
		log.Fatalf("unable to create render cache: %v", err)
	}
	defer cache.Close()

	svr := server.NewServer(cfg, conn, mux.NewRouter(), metrics.New(prometheus.NewRegistry()))
	svc := prerender.NewService(
		cfg,
		job.NewRepository(conn),
		blog.NewRepository(conn),
		resource.NewRepository(conn),
		cache,
		svr.Logger,
	)

	svr.RegisterRoute("/healthz", handler.HealthHandler(svr), []string{"GET"})
	svr.RegisterRoute("/", handler.PrerenderHandler(svr, svc), []string{"GET", "OPTIONS"})
	svr.RegisterRoute("/prerender", handler.PrerenderHandler(svr, svc), []string{"GET", "OPTIONS"})

	log.Fatal(svr.Run())
}
