package cli

import (
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/steelcalc/internal/tui"
)

// NewFormCmd creates the form command: the interactive two-column
// calculator.
func NewFormCmd() *cobra.Command {
	var inputs inputFlags

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Interactive calculator form",
		Long: `Opens the calculator as a two-column terminal form: inputs on the left,
outputs on the right. Every change recomputes the outputs immediately.

Shape, flange width and gauge cycle through their tables with left/right;
press enter on member depth, outside diameter or CWT price to type a value.
Input flags set the starting selections.`,
		Example: `  steelcalc form
  steelcalc form --gauge 16 --cwt 62.50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return errors.New("form needs an interactive terminal; use calc for scripted use")
			}

			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			in, err := inputs.resolve(cmd, rt.defaults)
			if err != nil {
				return err
			}

			model := tui.NewFormModel(rt.tables, in)
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	inputs.register(cmd)
	return cmd
}
