package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	appproviders "github.com/linkstash/linkstash/app/providers"
	"github.com/linkstash/linkstash/framework/app"
	gohttp "github.com/linkstash/linkstash/framework/http"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New() // loads .env automatically
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	if err := application.Register(&appproviders.BookmarkServiceProvider{}); err != nil {
		log.Fatalf("register providers: %v", err)
	}
	if err := application.Boot(ctx); err != nil {
		log.Fatalf("boot: %v", err)
	}

	router, err := application.Router(ctx)
	if err != nil {
		log.Fatalf("router: %v", err)
	}
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{"status": "ok"})
	})

	if err := application.Run(ctx); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server: %v", err)
	}
}
