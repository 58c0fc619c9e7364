package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "abrigo-animais/docs"
	"abrigo-animais/internal/adapters/auth/jwtverifier"
	localblob "abrigo-animais/internal/adapters/blob/local"
	smtpmail "abrigo-animais/internal/adapters/mail/smtp"
	pg "abrigo-animais/internal/adapters/storage/postgres"
	"abrigo-animais/internal/config"
	"abrigo-animais/internal/notify"
	"abrigo-animais/internal/platform/logger"
	"abrigo-animais/internal/ports/auth"
	"abrigo-animais/internal/router"
	"abrigo-animais/pkg/token"
)

// @title Abrigo de Animais API
// @version 1.0
// @description API do abrigo: animais, adoções, notícias, doações e eventos.
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// Sem segredo fora de produção a API sobe em modo dev, com o token
	// assinado por um segredo fixo e o verifier aceitando X-Debug-User-ID.
	secret := cfg.JWT.Secret
	var verifier auth.AuthVerifier
	if secret == "" {
		secret = "dev-only-secret"
		log.Warn("JWT_SECRET not set, running in dev auth mode")
	}

	tokens, err := token.NewService(token.Config{
		Secret:     secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
	})
	if err != nil {
		log.Fatal("token service", zap.Error(err))
	}
	if cfg.JWT.Secret != "" {
		verifier = jwtverifier.New(tokens)
	}

	var db *sql.DB
	opts := router.Options{
		AuthVerifier:   verifier,
		Tokens:         tokens,
		UploadsDir:     cfg.Uploads.Dir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Log:            log,
	}

	if cfg.Database.DSN != "" {
		opened, err := pg.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatal("postgres connection", zap.Error(err))
		}
		db = opened
		opts.DB = opened
		log.Info("storage: postgres")
	} else {
		log.Info("storage: in-memory")
	}

	blobs, err := localblob.New(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		log.Fatal("uploads dir", zap.Error(err))
	}
	opts.Blobs = blobs

	var sender notify.Sender
	if cfg.SMTP.Host != "" {
		sender = smtpmail.NewSender(smtpmail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			FromName: cfg.SMTP.FromName,
		})
	} else {
		log.Warn("SMTP_HOST not set, email notifications disabled")
	}
	dispatcher := notify.NewDispatcher(sender, cfg.ShelterInbox, log)
	opts.Mail = dispatcher

	handler := router.NewRouter(opts)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("shutdown", zap.Error(err))
		}

		// Espera os e-mails em voo antes de soltar o processo.
		dispatcher.Wait()
		if db != nil {
			_ = db.Close()
		}
	}
}
