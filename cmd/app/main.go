package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Devnone21/xtb-slim/internal/app"
	"github.com/Devnone21/xtb-slim/internal/domain"
	"github.com/Devnone21/xtb-slim/internal/infra"
	"github.com/Devnone21/xtb-slim/internal/strategy"
	"github.com/Devnone21/xtb-slim/internal/xapi"
)

const loginAttempts = 5

func main() {
	// Credentials usually live in .env during development.
	godotenv.Load()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, bootstrap); err != nil {
		slog.Error("❌ Session failed", slog.Any("error", err))
		bootstrap.Shutdown()
		os.Exit(1)
	}
	slog.Info("👋 Done")
}

func run(ctx context.Context, b *app.Bootstrap) error {
	client := b.Client

	if err := login(ctx, client, b.Credentials()); err != nil {
		return err
	}
	defer func() {
		// Best effort: the session may already be gone after a transport
		// failure, logout still flips the local state.
		logoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Logout(logoutCtx); err != nil {
			slog.Warn("logout failed", slog.Any("error", err))
		}
	}()

	version, err := client.GetVersion(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "✅ Connected", "api_version", version.Version)

	margin, err := client.GetMarginLevel(ctx)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "💰 Account",
		"balance", margin.Balance, "equity", margin.Equity, "currency", margin.Currency)

	symbols := b.Config.Trading.Symbols
	if len(symbols) == 0 {
		slog.InfoContext(ctx, "no trading symbols configured, nothing to watch")
		return nil
	}

	// Market-hours gate: only quote symbols that are actually tradeable now.
	open, err := b.Hours.IsOpen(ctx, symbols, time.Now())
	if err != nil {
		return err
	}
	strat := strategy.NewSMACross(5, 20)
	for _, sym := range symbols {
		if !open[sym] {
			slog.InfoContext(ctx, "⏸ market closed", "symbol", sym)
			continue
		}
		rec, err := client.GetSymbol(ctx, sym)
		if err != nil {
			if domain.IsTransport(err) {
				return err
			}
			slog.Warn("quote failed", "symbol", sym, slog.Any("error", err))
			continue
		}
		slog.InfoContext(ctx, "📈 quote", "symbol", sym, "ask", rec.Ask, "bid", rec.Bid)

		candles, err := client.GetLastNCandles(ctx, sym, domain.PeriodM15.Seconds(), strat.MinCandles())
		if err != nil {
			if domain.IsTransport(err) {
				return err
			}
			slog.Warn("candle history unavailable", "symbol", sym, slog.Any("error", err))
			continue
		}
		if sig := strat.Evaluate(candles); sig != strategy.SignalNone {
			slog.InfoContext(ctx, "📣 signal", "symbol", sym, "signal", sig.String())
		}
	}

	if err := b.Tracker.Refresh(ctx); err != nil {
		return err
	}
	for _, pos := range b.Tracker.Positions() {
		slog.InfoContext(ctx, "📊 open position",
			"order", pos.Order, "symbol", pos.Symbol, "mode", pos.Mode.String(),
			"volume", pos.Volume, "profit", pos.Profit)
	}

	return nil
}

// login retries the initial connection with exponential backoff. Transport
// failures are retried; a credential rejection is final.
func login(ctx context.Context, client *xapi.Client, creds xapi.Credentials) error {
	var lastErr error
	for attempt := 0; attempt < loginAttempts; attempt++ {
		if attempt > 0 {
			delay := infra.CalculateBackoff(attempt - 1)
			slog.Warn("🔁 retrying login", "attempt", attempt+1, "delay", delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := client.Login(ctx, creds)
		if err == nil {
			slog.InfoContext(ctx, "🔐 logged in", "stream_session", result.StreamSessionID != "")
			return nil
		}
		if !domain.IsTransport(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
