package main

import (
	"log"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jobboard/prerender/internal/config"
	"github.com/jobboard/prerender/internal/gateway"
	"github.com/jobboard/prerender/internal/handler"
	"github.com/jobboard/prerender/internal/metrics"
	"github.com/jobboard/prerender/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("unable to load config: %+v", err)
	}

	svr := server.NewServer(cfg, nil, mux.NewRouter(), metrics.New(prometheus.NewRegistry()))

	signatures, err := gateway.LoadSignatures(cfg.BotSignaturesFile)
	if err != nil {
		log.Fatalf("unable to load bot signatures: %v", err)
	}
	gw, err := gateway.New(cfg, gateway.NewClassifier(signatures), gateway.SPAHandler(cfg.SPADir), svr.Logger, svr.Metrics)
	if err != nil {
		log.Fatalf("unable to create gateway: %v", err)
	}

	svr.RegisterRoute("/healthz", handler.HealthHandler(svr), []string{"GET"})
	svr.RegisterPathPrefix("/", gw, []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})

	log.Fatal(svr.Run())
}
