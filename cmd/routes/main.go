package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/jobboard/prerender/internal/blog"
	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/database"
	"github.com/jobboard/prerender/internal/job"
	"github.com/jobboard/prerender/internal/seo"
)

func main() {
	out := flag.String("out", "prerender-routes.json", "file the crawlable routes are written to")
	flag.Parse()

	log.Println("collecting crawlable routes")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config %v", err)
	}
	conn, err := database.GetDbConn(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("unable to connect to postgres: %v", err)
	}
	defer database.CloseDbConn(conn)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	routes, err := seo.CrawlableRoutes(ctx, job.NewRepository(conn), blog.NewRepository(conn), time.Now())
	if err != nil {
		log.Fatalf("unable to collect routes: %v", err)
	}
	data, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		log.Fatalf("unable to encode routes: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("unable to write %s: %v", *out, err)
	}
	log.Printf("wrote %d routes to %s\n", len(routes), *out)
}
