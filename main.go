package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/zenexa/ghlbridge/config"
	"github.com/zenexa/ghlbridge/ghl/ghlclient"
	"github.com/zenexa/ghlbridge/ghl/tokenstore"
	"github.com/zenexa/ghlbridge/lib/mystore"
	"github.com/zenexa/ghlbridge/lib/mytime"
	"github.com/zenexa/ghlbridge/lib/myuuid"
	"github.com/zenexa/ghlbridge/services/contacts"
	"github.com/zenexa/ghlbridge/services/ghlauth"
	"github.com/zenexa/ghlbridge/services/health"
	"github.com/zenexa/ghlbridge/services/pages"
	"github.com/zenexa/ghlbridge/services/webhook"
)

func main() {
	c := context.Background()

	// optional: local development settings
	_ = godotenv.Load()

	cfg := config.Load()
	err := cfg.Validate()
	if err != nil {
		log.Fatalf("Invalid configuration: %s", err)
	}

	tokenStore, storeCleanup, err := mystore.New[tokenstore.TokenRecord](c)
	if err != nil {
		log.Fatalf("Error creating token store: %s", err)
	}
	defer storeCleanup()

	tokens := tokenstore.NewManager(tokenStore, mytime.RealNower{})

	oauthClient := ghlclient.NewOAuthClient(cfg.APIDomain, ghlclient.Credentials{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	})
	clientFactory := ghlclient.NewFactory(cfg.APIDomain, tokens, oauthClient)
	resolver := ghlclient.NewResolver(clientFactory, tokens)

	router := mux.NewRouter()

	ghlauth.NewService(oauthClient, tokens, cfg.SSOKey).RegisterEndpoints(c, router)
	contacts.NewService(clientFactory, resolver, tokens, cfg.DefaultLocationID).RegisterEndpoints(c, router)
	webhook.NewService(resolver, tokens, cfg.ZenexaBackendURL, mytime.RealNower{}, myuuid.RealUUIDer{}).RegisterEndpoints(c, router)
	pages.NewService().RegisterEndpoints(c, router)
	health.NewService(tokens).RegisterEndpoints(c, router)

	startWebServerBlocking(router, cfg.Port)
}

func startWebServerBlocking(router *mux.Router, port string) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
