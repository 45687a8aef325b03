package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"bobbin/dialogue"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [script.bobbin]",
	Short: "Run a dialogue in the terminal",
	Long: `Run compiles a script and prints its lines to stdout. At each choice the
options are numbered from 1 and the pick is read from --choices or stdin.
Without a script argument [run].main from bobbin.toml is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDialogue,
}

func init() {
	addSessionFlags(runCmd)
	runCmd.Flags().String("choices", "", "comma-separated 1-based picks, e.g. 1,2,1")
}

func runDialogue(cmd *cobra.Command, args []string) (err error) {
	choices, err := cmd.Flags().GetString("choices")
	if err != nil {
		return fmt.Errorf("failed to get choices flag: %w", err)
	}
	picks, err := parsePicks(choices)
	if err != nil {
		return err
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

	p := &player{
		rt:          s.rt,
		out:         cmd.OutOrStdout(),
		picks:       picks,
		in:          bufio.NewScanner(cmd.InOrStdin()),
		interactive: choices == "" && isTerminal(os.Stdin),
	}
	if err := p.play(); err != nil {
		return s.fail(os.Stderr, err)
	}
	cfg.printTimings()
	return nil
}

// player drives a runtime line by line for `bobbin run`.
type player struct {
	rt          *dialogue.Runtime
	out         io.Writer
	picks       []int // 1-based, from --choices
	in          *bufio.Scanner
	interactive bool
}

func (p *player) play() error {
	for {
		if p.rt.IsWaitingForChoice() {
			choices := p.rt.CurrentChoices()
			for i, c := range choices {
				fmt.Fprintf(p.out, "  %d) %s\n", i+1, c)
			}
			n, err := p.nextPick(len(choices))
			if err != nil {
				return err
			}
			if err := p.rt.SelectChoice(n - 1); err != nil {
				return err
			}
			continue
		}
		if line := p.rt.CurrentLine(); line != "" {
			fmt.Fprintln(p.out, line)
		}
		if !p.rt.HasMore() {
			return nil
		}
		if err := p.rt.Advance(); err != nil {
			return err
		}
	}
}

// nextPick takes the next --choices entry or reads one from input. Out of
// range picks from --choices go to the runtime, which reports them.
func (p *player) nextPick(count int) (int, error) {
	if len(p.picks) > 0 {
		n := p.picks[0]
		p.picks = p.picks[1:]
		fmt.Fprintf(p.out, "> %d\n", n)
		return n, nil
	}
	for {
		if p.interactive {
			fmt.Fprint(p.out, "> ")
		}
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return 0, err
			}
			return 0, errors.New("input ended while waiting for a choice")
		}
		n, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err == nil && n >= 1 && n <= count {
			return n, nil
		}
		if !p.interactive {
			return 0, fmt.Errorf("invalid choice %q (expected 1..%d)", p.in.Text(), count)
		}
		fmt.Fprintf(p.out, "pick a number from 1 to %d\n", count)
	}
}

func parsePicks(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	picks := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid --choices entry %q", part)
		}
		picks = append(picks, n)
	}
	return picks, nil
}
