package main

import (
	_ "embed"
	"flag"
	"os"
	"strings"

	"bundlenet/pkg/config"
	"bundlenet/pkg/kvstore"
	"bundlenet/pkg/log"
	"bundlenet/pkg/server"
)

//go:embed VERSION
var Version string

func main() {
	// Initialize logger first
	_ = log.Logger

	configPath := flag.String("config", "", "YAML config file path")
	dataDir := flag.String("data", "build/data", "Badger data directory")
	addr := flag.String("addr", ":8080", "Listen address")
	admin := flag.String("admin", "", "Admin identity (overrides config file)")
	seed := flag.String("seed", "", "Viewing-key seed (overrides config file)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetDebugMode()
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load config")
		}
	}
	if *admin != "" {
		cfg.Admin = *admin
	}
	if *seed != "" {
		cfg.Seed = *seed
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	store, err := kvstore.OpenBadger(*dataDir)
	if err != nil {
		log.Fatal().Err(err).Str("data_dir", *dataDir).Msg("Failed to open store")
	}

	// First start writes the constants; later starts keep the stored copy.
	if err := store.Update(func(txn kvstore.Txn) error {
		return config.Init(txn, cfg)
	}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize constants")
	}

	srv := server.New(store, strings.TrimSpace(Version))
	if err := srv.Start(*addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	os.Exit(0)
}
