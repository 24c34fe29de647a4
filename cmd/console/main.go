package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"hotelres/internal"
	"hotelres/internal/api"
	"hotelres/internal/auth"
	"hotelres/internal/certs"
	"hotelres/internal/console"
	"hotelres/internal/utils"
	"hotelres/internal/views"
)

func main() {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	key, err := internal.ReadSessionKey(cfg.SessionKey)
	if err != nil {
		log.Fatal(err)
	}
	logger := utils.NewWriterLogger(os.Stderr)
	if cfg.LogFile != "" {
		if logger, err = utils.NewLogger(cfg.LogFile); err != nil {
			log.Fatal(err)
		}
		defer logger.Close()
	}

	session := auth.NewSession(auth.NewFileStore(utils.SessionFile(cfg.StateDir), key))
	if err := session.Init(); err != nil {
		log.Fatal(err)
	}
	defer session.Close()

	secret := []byte(cfg.Console.CookieSecret)
	if len(secret) == 0 {
		// notices do not outlive the process without a configured secret
		secret = internal.MustRandom(32)
	}
	apiOpts := []api.Option{api.WithLogger(logger)}
	if cfg.CADir != "" {
		hc, err := certs.NewCertManager(cfg.CADir).HTTPClient()
		if err != nil {
			log.Fatal(err)
		}
		apiOpts = append(apiOpts, api.WithHTTPClient(hc))
	}
	srv := console.NewServer(views.Deps{
		API:     api.NewClient(cfg.BaseURL, session, apiOpts...),
		Session: session,
		Log:     logger,
	}, secret)

	httpSrv := &http.Server{Addr: cfg.Console.Listen, Handler: srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpSrv.Shutdown(shutdown)
	}()

	logger.Infof("console on %s, backend %s", cfg.Console.Listen, cfg.BaseURL)
	log.Printf("Console running on %s", cfg.Console.Listen)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
