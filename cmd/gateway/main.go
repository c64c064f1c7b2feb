package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront-client/internal/config"
	"storefront-client/internal/httpserver"
	cartsvc "storefront-client/internal/service/cart"
	checkoutsvc "storefront-client/internal/service/checkout"
	identitysvc "storefront-client/internal/service/identity"
	"storefront-client/internal/token"
	"storefront-client/internal/upstream"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[gateway] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	identityStore := identitysvc.NewStore()
	tokenStore := token.NewFileStore(cfg.TokenPath)

	// The identity service is wired as the client's 401 hook after both
	// exist; the client only needs the token source up front.
	var identityService *identitysvc.Service
	client := upstream.New(cfg.UpstreamBaseURL, identityStore, func() {
		identityService.HandleAuthFailure()
	}, logger)
	identityService = identitysvc.NewService(identityStore, client, tokenStore, logger)
	identityService.Init()

	cartStore := cartsvc.NewStore()
	cartService := cartsvc.New(client, cartStore, logger)
	checkoutGate := checkoutsvc.NewGate(identityService, cartService, client, logger)

	srv := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Identity: identityService,
		Carts:    cartService,
		Checkout: checkoutGate,
		Relay:    client,
	}, cfg.AllowedOrigins)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
