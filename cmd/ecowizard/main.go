package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/productaware/ecoselect/internal/config"
	"github.com/productaware/ecoselect/internal/recommender"
	"github.com/productaware/ecoselect/internal/tui"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	serviceURL := flag.String("service", "", "scoring service base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	url := cfg.Service.URL
	if *serviceURL != "" {
		url = *serviceURL
	}

	program := tea.NewProgram(tui.New(tui.Config{
		Client:     recommender.NewHTTPClient(url),
		Dimensions: cfg.DimensionMap(),
	}), tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}
}
