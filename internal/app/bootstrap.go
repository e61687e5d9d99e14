// Package app wires configuration, logging and the protocol client into a
// ready-to-run trading application.
package app

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Devnone21/xtb-slim/internal/execution"
	"github.com/Devnone21/xtb-slim/internal/infra"
	"github.com/Devnone21/xtb-slim/internal/market"
	"github.com/Devnone21/xtb-slim/internal/xapi"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Logger  *slog.Logger
	Client  *xapi.Client
	Tracker *execution.Tracker
	Trader  *execution.Trader
	Hours   *market.Evaluator

	unlock func()
}

func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, sets up logging and constructs the client stack.
// No network traffic happens here; the first exchange is the caller's login.
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping xtb-slim...")

	cfg, err := infra.LoadConfig(infra.ResolveConfigPath())
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	b.Logger = logger

	infra.PrintBanner(cfg)

	// One session per account: a second process would steal the connection
	// mid-exchange.
	unlock, err := infra.CreateLockFile(".")
	if err != nil {
		return err
	}
	b.unlock = unlock

	// Credential fallback chain: environment, main config, per-mode secret file.
	if cfg.XTB.UserID == "" || cfg.XTB.Password == "" {
		secretPath := filepath.Join("secrets", cfg.XTB.Mode+".yaml")
		if secret, err := infra.LoadSecretConfig(secretPath); err == nil {
			if cfg.XTB.UserID == "" {
				cfg.XTB.UserID = secret.XTB.UserID
			}
			if cfg.XTB.Password == "" {
				cfg.XTB.Password = secret.XTB.Password
			}
		}
	}
	if cfg.XTB.UserID == "" || cfg.XTB.Password == "" {
		return fmt.Errorf("missing credentials: set XTB_USER_ID and XTB_PASSWORD")
	}

	sess := xapi.NewSession(xapi.SessionConfig{Endpoint: cfg.XTB.Endpoint})
	b.Client = xapi.NewClient(sess, logger)
	b.Tracker = execution.NewTracker(b.Client)
	b.Trader = execution.NewTrader(b.Client, b.Tracker, logger)
	b.Hours = market.NewEvaluator(b.Client)

	slog.Info("✅ Client stack ready", "endpoint", cfg.XTB.Endpoint, "mode", cfg.XTB.Mode)
	return nil
}

// Credentials builds the login credentials from config.
func (b *Bootstrap) Credentials() xapi.Credentials {
	return xapi.Credentials{
		UserID:   b.Config.XTB.UserID,
		Password: b.Config.XTB.Password,
		Mode:     b.Config.XTB.Mode,
	}
}

// Shutdown releases process-level resources. Safe to call once, always.
func (b *Bootstrap) Shutdown() {
	if b.unlock != nil {
		b.unlock()
		b.unlock = nil
	}
}
