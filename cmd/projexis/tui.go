package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/ui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		if _, err := a.store.Restore(cmd.Context()); err != nil {
			a.logger.Warn().Err(err).Msg("could not restore session")
		}

		p := tea.NewProgram(
			ui.NewApp(a.store, a.logger, a.cfg.Poll.Mentions),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		_, err := p.Run()
		return err
	})
}
