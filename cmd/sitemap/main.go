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
	"github.com/jobboard/prerender/internal/resource"
	"github.com/jobboard/prerender/internal/server"
	"github.com/jobboard/prerender/internal/sitemap"
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

	svr := server.NewServer(cfg, conn, mux.NewRouter(), metrics.New(prometheus.NewRegistry()))
	gen := sitemap.NewGenerator(cfg, resource.NewRepository(conn), job.NewRepository(conn), blog.NewRepository(conn))

	svr.RegisterRoute("/healthz", handler.HealthHandler(svr), []string{"GET"})
	svr.RegisterRoute("/", handler.SitemapHandler(svr, gen), []string{"GET", "OPTIONS"})
	svr.RegisterRoute("/sitemap.xml", handler.SitemapHandler(svr, gen), []string{"GET", "OPTIONS"})
	svr.RegisterRoute("/jobs.rss", handler.JobsFeedHandler(svr, gen), []string{"GET", "OPTIONS"})
	svr.RegisterRoute("/blogs.rss", handler.BlogsFeedHandler(svr, gen), []string{"GET", "OPTIONS"})

	log.Fatal(svr.Run())
}
