package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mpsousa/flatbill/internal/auth"
	"github.com/mpsousa/flatbill/internal/bill"
	billStore "github.com/mpsousa/flatbill/internal/bill/store"
	"github.com/mpsousa/flatbill/internal/config"
	"github.com/mpsousa/flatbill/internal/database"
	flatbillHttp "github.com/mpsousa/flatbill/internal/http"
	authHandler "github.com/mpsousa/flatbill/internal/http/auth"
	billHandler "github.com/mpsousa/flatbill/internal/http/bill"
	invitationHandler "github.com/mpsousa/flatbill/internal/http/invitation"
	partyHandler "github.com/mpsousa/flatbill/internal/http/party"
	"github.com/mpsousa/flatbill/internal/invitation"
	invitationStore "github.com/mpsousa/flatbill/internal/invitation/store"
	"github.com/mpsousa/flatbill/internal/logging"
	"github.com/mpsousa/flatbill/internal/mailer"
	"github.com/mpsousa/flatbill/internal/metrics"
	"github.com/mpsousa/flatbill/internal/party"
	partyStore "github.com/mpsousa/flatbill/internal/party/store"
	"github.com/mpsousa/flatbill/internal/pdf"
)

func main() {
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), database.Options{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	smtp, err := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	if err != nil {
		slog.Error("failed to set up mailer", "error", err)
		os.Exit(1)
	}

	var (
		hasher = auth.NewBcryptHasher()
		jwtMgr = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		m      = metrics.New(prometheus.DefaultRegisterer)

		parties = partyStore.New(db)

		partyService = party.NewService(parties, hasher)

		invitationService = invitation.NewService(
			invitationStore.New(db),
			parties,
			invitation.CryptoTokenSource{},
			hasher,
			cfg.App.BaseURL,
		)

		billService = bill.NewService(
			billStore.New(db),
			parties,
			pdf.NewRenderer(),
			smtp,
			m,
		)
	)

	var (
		authH       = authHandler.NewHandler(partyService, jwtMgr)
		billH       = billHandler.NewHandler(billService)
		invitationH = invitationHandler.NewHandler(invitationService)
		partyH      = partyHandler.NewHandler(partyService)
	)

	router := flatbillHttp.New(authH, billH, invitationH, partyH, jwtMgr)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
