package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ironsheep/epd-image/internal/panel"
)

type panelEntry struct {
	panel.Descriptor
	Format string   `json:"format"`
	Colors []string `json:"colors"`
}

func newPanelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panels",
		Short: "List supported panel models",
		Long: `Lists every panel model epd-image knows, with its native size, whether it
keeps colour, its inks and whether a hardware backend is available. Panels
without a backend can still be rendered with --output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			descs := panel.Default.Descriptors()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				entries := make([]panelEntry, 0, len(descs))
				for _, d := range descs {
					entries = append(entries, panelEntry{Descriptor: d, Format: d.Format().String(), Colors: d.Colors()})
				}
				return printJSON(cmd.OutOrStdout(), entries)
			}

			_, err := fmt.Fprint(cmd.OutOrStdout(), renderPanels(descs))
			return err
		},
	}
	cmd.Flags().Bool("json", false, "Print as JSON")
	return cmd
}

func renderPanels(descs []panel.Descriptor) string {
	name := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true).Width(20)
	size := lipgloss.NewStyle().Width(10)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	var b strings.Builder
	for _, d := range descs {
		backend := "hardware"
		if !d.Hardware {
			backend = "preview only"
		}
		b.WriteString(name.Render(d.Model))
		b.WriteString(size.Render(fmt.Sprintf("%dx%d", d.Width, d.Height)))
		b.WriteString(fmt.Sprintf("%-5s ", d.Format()))
		b.WriteString(d.Description)
		b.WriteString(dim.Render(fmt.Sprintf("  [%s, %s]", backend, strings.Join(d.Colors(), " "))))
		b.WriteString("\n")
	}
	return b.String()
}
