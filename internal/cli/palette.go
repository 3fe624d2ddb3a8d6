package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/palette"
	"github.com/matzehuels/vrplot/pkg/pipeline"
)

const defaultPaletteSize = 8

// paletteCommand creates the palette preview command.
func (c *CLI) paletteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palette [name] [n]",
		Short: "Preview a palette's colours",
		Long: `Preview a palette's colours.

Without arguments, every named palette is listed. Gradients between two
colours are written as gradient:#rrggbb:#rrggbb.`,
		Example: `  vrplot palette
  vrplot palette viridis 5
  vrplot palette gradient:#0000ff:#ff0000 4`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range palette.Names() {
					printPalette(name, defaultPaletteSize)
				}
				return nil
			}
			n := defaultPaletteSize
			if len(args) == 2 {
				v, err := strconv.Atoi(args[1])
				if err != nil || v < 1 {
					return errors.New(errors.ErrCodeInvalidInput, "invalid colour count %q: want a positive integer", args[1])
				}
				n = v
			}
			if err := pipeline.ValidatePalette(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out, paletteTable(args[0], n))
			return nil
		},
	}
}

// printPalette prints a one-line swatch strip for a named palette.
func printPalette(name string, n int) {
	fn, err := palette.ByName(name)
	if err != nil {
		return
	}
	strip := ""
	for _, hex := range fn(n) {
		strip += lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
	}
	fmt.Fprintln(out, styleKey.Render(name)+" "+strip)
}

// paletteTable renders n colours of the named palette as a table.
func paletteTable(name string, n int) string {
	fn, _ := palette.ByName(name)
	colours := fn(n)

	rows := make([][]string, len(colours))
	for i, hex := range colours {
		rows[i] = []string{strconv.Itoa(i + 1), "████", hex}
	}

	headerStyle := StyleTitle
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", name, "Hex").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if col == 1 && row >= 0 && row < len(colours) {
				return base.Foreground(lipgloss.Color(colours[row]))
			}
			return base
		})
	return t.Render()
}
