package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tguichaoua/promised-sqlite3/pkg/config"
)

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// parseGatewayConfig resolves the daemon configuration.
// Priority: flags > env > config file > defaults.
func parseGatewayConfig() *config.GatewayConfig {
	defaults := config.Default()

	configFile := flag.String("config", getEnvDefault("GATEWAY_CONFIG", ""), "Path to YAML config file")
	addr := flag.String("addr", getEnvDefault("GATEWAY_ADDR", ""), "HTTP listen address (e.g., :6001)")
	dataDir := flag.String("data-dir", getEnvDefault("GATEWAY_DATA_DIR", ""), "Directory holding the database files")
	journal := flag.String("journal-mode", getEnvDefault("GATEWAY_JOURNAL_MODE", ""), "Journal mode for created databases")

	flag.Parse()

	cfg := defaults
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config %s: %v\n", *configFile, err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *journal != "" {
		cfg.JournalMode = *journal
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}
