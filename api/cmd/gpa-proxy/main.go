package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"moyenne-bot/api/internal/app"
	"moyenne-bot/api/internal/config"
	"moyenne-bot/api/internal/handle"
	"moyenne-bot/api/internal/httpserver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer st.Close()
	go app.RunJanitor(ctx, st, cfg, time.Hour)

	mux := http.NewServeMux()
	httpserver.Mount(mux, st.Pinger(), "moyenne gpa api")
	handle.New(st.KV, app.NewAdvisor(cfg, st), cfg.AdviceTimeout).Register(mux)

	addr := ":" + cfg.Port
	log.Printf("gpa-proxy listening on %s", addr)
	if err := httpserver.Serve(ctx, addr, mux); err != nil {
		log.Fatal(err)
	}
}
