package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/cmd/cli/tui"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/app"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/tiny-supply-go/internal/config"
)

func main() {
	configPath := flag.String("config", "./samples/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.LoadYAML(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	// Logs are shown inside the TUI instead of corrupting the screen.
	logCh := make(chan string, 256)
	a, err := app.Open(context.Background(), cfg, &tui.ChannelWriter{Ch: logCh})
	if err != nil {
		fmt.Println("System startup error:", err)
		os.Exit(1)
	}
	defer a.Close()

	model := tui.NewModel(tui.NewCommander(a.System, a.Store), logCh)
	p := bubbletea.NewProgram(model, bubbletea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
