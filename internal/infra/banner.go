package infra

import (
	"fmt"
	"strings"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
)

// PrintBanner displays the startup banner with mode-specific warnings.
func PrintBanner(cfg *Config) {
	mode := strings.ToUpper(cfg.XTB.Mode)
	version := cfg.App.Version

	color := ColorYellow
	modeDesc := "DEMO ACCOUNT (PLAY MONEY)"

	if mode == "REAL" {
		color = ColorRed
		modeDesc = "REAL MONEY TRADING"
	}

	fmt.Println()
	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#                 🚀 xtb-slim Trading Client              #%s\n", color, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)
	fmt.Printf("%s#   MODE:    %-36s #%s\n", color, mode, ColorReset)
	fmt.Printf("%s#   TYPE:    %-36s #%s\n", color, modeDesc, ColorReset)
	fmt.Printf("%s#   VERSION: %-36s #%s\n", color, version, ColorReset)
	fmt.Printf("%s#                                                         #%s\n", color, ColorReset)

	if mode == "REAL" {
		fmt.Printf("%s#   ⚠️  WARNING: YOU ARE TRADING WITH REAL MONEY  ⚠️      #%s\n", ColorRed, ColorReset)
		fmt.Printf("%s#   VERIFY YOUR FLOW AGAINST THE DEMO ENDPOINT FIRST      #%s\n", ColorRed, ColorReset)
	}

	fmt.Printf("%s###########################################################%s\n", color, ColorReset)
	fmt.Println()
}
