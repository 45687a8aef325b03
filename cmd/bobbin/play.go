package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"bobbin/internal/ui"
)

var playCmd = &cobra.Command{
	Use:   "play [flags] [script.bobbin]",
	Short: "Play a dialogue in an interactive terminal view",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func init() {
	addSessionFlags(playCmd)
	playCmd.Flags().Bool("alt-screen", true, "use the alternate screen buffer")
}

func runPlay(cmd *cobra.Command, args []string) (err error) {
	if !isTerminal(os.Stdout) || !isTerminal(os.Stdin) {
		return errors.New("play needs a terminal; use `bobbin run` for scripted input")
	}
	altScreen, err := cmd.Flags().GetBool("alt-screen")
	if err != nil {
		return fmt.Errorf("failed to get alt-screen flag: %w", err)
	}

	s, err := openSession(cmd, args)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	model := ui.NewPlayModel(s.file.DisplayPath(), s.rt)
	opts := []tea.ProgramOption{tea.WithOutput(os.Stdout)}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		return err
	}
	if rerr := model.Err(); rerr != nil {
		return s.fail(os.Stderr, rerr)
	}
	if !model.Finished() {
		cfg.notef("dialogue left unfinished")
	}
	return nil
}
