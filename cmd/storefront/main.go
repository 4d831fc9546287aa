package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/platform/config"
	"storefront/internal/platform/httpserver"
	"storefront/internal/platform/logger"
	"storefront/internal/platform/metrics"
	platformredis "storefront/internal/platform/redis"
	"storefront/internal/remote"
	"storefront/internal/session"
	"storefront/internal/storage"
	httptransport "storefront/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Everything is constructed once here and passed by reference; no store or
// holder is reachable through ambient lookup.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	kv, cleanup, err := newKeyValue(cfg)
	if err != nil {
		log.Error("state store init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	tokens := session.NewTokenSource(kv)
	api := remote.NewClient(cfg.APIBaseURL, tokens, log)
	authClient := remote.NewAuthClient(api)
	productClient := remote.NewProductClient(api)
	orderClient := remote.NewOrderClient(api)

	holder := session.NewHolder(kv, identityFetcher{auth: authClient}, log)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.ResolveTimeout)
	cartStore := cart.NewStore(startupCtx, kv, log, m)
	holder.Subscribe(cartStore.HandleSessionChange)
	holder.Resolve(startupCtx)
	cancelStartup()

	checkoutSvc := checkout.NewService(orderClient, cartStore, holder, log, m)

	handler := httptransport.NewHandler(log, m, holder, cartStore, checkoutSvc, authClient, productClient, orderClient)
	router := httptransport.NewRouter(handler, registry)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting storefront", "addr", cfg.Addr, "api", cfg.APIBaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newKeyValue picks the client-state backend: Redis when configured, the
// file-per-key store otherwise.
func newKeyValue(cfg config.Config) (storage.KeyValue, func(), error) {
	client, err := platformredis.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if client != nil {
		return storage.NewRedis(client.Client), func() { _ = client.Close() }, nil
	}
	kv, err := storage.NewFile(cfg.StateDir)
	if err != nil {
		return nil, nil, err
	}
	return kv, func() {}, nil
}
