package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/aharlow/nowbar/internal/client"
	"github.com/aharlow/nowbar/internal/engine"
	"github.com/aharlow/nowbar/internal/shared"
	"github.com/aharlow/nowbar/internal/ui"
)

// Watch launches the live terminal widget backed by the adaptive poller.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	gatewayURL := cmd.String("gateway")
	if gatewayURL == "" {
		gatewayURL = config.Widget.GatewayURL
	}

	sc, err := client.NewStatusClient(gatewayURL, r.httpClient)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with widget rendering
	fileLogger, err := shared.NewFileLogger("./tmp/nowbar-watch.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}

	pollCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := &engine.Store{}
	settle := time.Duration(config.Widget.SettleDelay) * time.Second
	poller := engine.NewPoller(sc, store, fileLogger, settle)
	poller.Start(pollCtx)

	// Each refresh runs a fresh polling session; the widget only invokes
	// this after the previous session has idled out.
	restart := func() {
		poller.Start(pollCtx)
	}

	model := ui.NewModel(store, restart, config.Widget.Typing)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running widget: %w", err)
	}

	return nil
}
