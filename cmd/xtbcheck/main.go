// xtbcheck is a standalone connectivity probe: it logs in, round-trips a few
// read-only commands and prints what the broker answered. Useful for checking
// credentials and endpoint reachability without starting the full client.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Devnone21/xtb-slim/internal/xapi"
)

func main() {
	godotenv.Load()

	mode := flag.String("mode", "demo", "account mode: demo or real")
	endpoint := flag.String("endpoint", xapi.DefaultEndpoint, "websocket endpoint")
	symbol := flag.String("symbol", "", "optional symbol to quote")
	flag.Parse()

	creds := xapi.Credentials{
		UserID:   os.Getenv("XTB_USER_ID"),
		Password: os.Getenv("XTB_PASSWORD"),
		Mode:     *mode,
	}
	if creds.UserID == "" || creds.Password == "" {
		fmt.Fprintln(os.Stderr, "set XTB_USER_ID and XTB_PASSWORD")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess := xapi.NewSession(xapi.SessionConfig{Endpoint: *endpoint})
	client := xapi.NewClient(sess, slog.Default())

	fmt.Printf("=== xtb-slim Connectivity Check (%s) ===\n\n", *mode)

	if _, err := client.Login(ctx, creds); err != nil {
		fail("login", err)
	}
	fmt.Println("🔐 login             OK")
	defer client.Logout(context.Background())

	if err := client.Ping(ctx); err != nil {
		fail("ping", err)
	}
	fmt.Println("📡 ping              OK")

	version, err := client.GetVersion(ctx)
	if err != nil {
		fail("getVersion", err)
	}
	fmt.Printf("🏷  api version       %s\n", version.Version)

	serverTime, err := client.GetServerTime(ctx)
	if err != nil {
		fail("getServerTime", err)
	}
	fmt.Printf("🕐 server time       %s (%s)\n",
		time.Unix(serverTime.Time, 0).UTC().Format(time.RFC3339), serverTime.TimeString)

	if *symbol != "" {
		rec, err := client.GetSymbol(ctx, *symbol)
		if err != nil {
			fail("getSymbol", err)
		}
		fmt.Printf("📊 %-16s ask=%v bid=%v spread=%v\n", rec.Symbol, rec.Ask, rec.Bid, rec.SpreadRaw)
	}

	fmt.Println("\n✅ all checks passed")
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s failed: %v\n", step, err)
	os.Exit(1)
}
