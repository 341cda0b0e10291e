// Package render prints loadouts and session state for terminal use.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/eugenenazirov/plate-calculator/internal/plates"
	"github.com/eugenenazirov/plate-calculator/internal/session"
	"github.com/eugenenazirov/plate-calculator/internal/validator"
)

var (
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	green  = color.New(color.FgGreen, color.Bold).SprintFunc()
	faint  = color.New(color.Faint).SprintFunc()
)

// Loadout writes the plates for one side of the bar followed by the plate count line.
func Loadout(w io.Writer, loadout plates.Loadout) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s lbs\n", cyan("Total weight:"), green(validator.FormatWeight(loadout.TargetWeight)))
	fmt.Fprintf(&b, "%s %s lbs\n", cyan("Barbell weight:"), validator.FormatWeight(loadout.BarWeight))
	fmt.Fprintf(&b, "%s\n", cyan("Plates per side:"))

	if len(loadout.Plates) == 0 {
		fmt.Fprintf(&b, "  %s\n", faint("Just the barbell"))
	} else {
		for _, group := range plates.GroupRuns(loadout.Plates) {
			fmt.Fprintf(&b, "  %s x %d\n", yellow(validator.FormatWeight(group.Weight)), group.Count)
		}
	}

	if loadout.LeftoverPerSide > 0 {
		fmt.Fprintf(&b, "%s %s lbs per side cannot be loaded (loaded total %s lbs)\n",
			faint("Note:"),
			validator.FormatWeight(loadout.LeftoverPerSide),
			validator.FormatWeight(loadout.AchievedWeight))
	}

	fmt.Fprintf(&b, "Total plates needed: %d (%d per side)\n", loadout.TotalPlates, loadout.PlatesPerSide)

	_, err := io.WriteString(w, b.String())
	return err
}

// State writes the two field texts and the resulting loadout.
func State(w io.Writer, state session.State) error {
	header := fmt.Sprintf("%s [%s]  %s [%s]\n",
		cyan("target"), state.TargetText,
		cyan("bar"), state.BarText)
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}
	return Loadout(w, state.Loadout)
}
