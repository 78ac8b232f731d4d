package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-i2p/settingsync/lib/app"
	"github.com/go-i2p/settingsync/lib/keystore"
)

// Run boots the TUI program and blocks until it exits. Cancelling ctx ends
// the program without error.
func Run(ctx context.Context, c *app.Controller) error {
	program := tea.NewProgram(NewModel(c), tea.WithContext(ctx))

	// Store notifications arrive while the controller holds its write lock;
	// Send blocks on the program loop, so deliver from a fresh goroutine.
	id := c.Store().Subscribe(func(ev keystore.Event) {
		go program.Send(StoreChangedMsg{Key: ev.Key})
	})
	defer c.Store().Unsubscribe(id)
	c.OnRestart(func(gen uint64) {
		go program.Send(RestartedMsg{Generation: gen})
	})

	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
