package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/simp-lee/recipebook/internal/app"
	"github.com/simp-lee/recipebook/internal/config"
)

func main() {
	defaultPath := "configs/config.yaml"
	if p := os.Getenv("RECIPEBOOK_CONFIG"); p != "" {
		defaultPath = p
	}
	configPath := flag.String("config", defaultPath, "path to the YAML configuration (env RECIPEBOOK_CONFIG)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("recipebook stopped", slog.String("config", *configPath), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	return a.Run()
}
