package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/plate-calculator/internal/render"
	"github.com/eugenenazirov/plate-calculator/internal/session"
)

const interactiveHelp = `commands:
  t <weight>   set the total target weight
  b <weight>   set the bar weight
  +            add 5 to the target
  -            remove 5 from the target
  q            quit
`

// runInteractive reads one command per line and re-renders the session after each.
// Pressing Enter on a field edit is the commit; there is no separate blur event.
func runInteractive(in io.Reader, out io.Writer, s *session.Session, logger *zap.Logger) error {
	if err := render.State(out, s.State()); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		if _, err := io.WriteString(out, "> "); err != nil {
			return err
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		cmd, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch strings.ToLower(cmd) {
		case "q", "quit", "exit":
			return nil
		case "t", "target":
			s.Set(session.TargetField, arg)
		case "b", "bar":
			s.Set(session.BarField, arg)
		case "+":
			s.Increment()
		case "-":
			s.Decrement()
		case "":
		default:
			if _, err := fmt.Fprint(out, interactiveHelp); err != nil {
				return err
			}
			continue
		}

		state := s.State()
		logger.Debug("session updated",
			zap.String("command", cmd),
			zap.Float64("target_weight", state.TargetWeight),
			zap.Float64("bar_weight", state.BarWeight),
			zap.Int("plates_per_side", state.Loadout.PlatesPerSide),
		)
		if err := render.State(out, state); err != nil {
			return err
		}
	}

	return scanner.Err()
}
