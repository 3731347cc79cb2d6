package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/epd-image/internal/config"
	"github.com/ironsheep/epd-image/internal/display"
	"github.com/ironsheep/epd-image/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Runs a Model Context Protocol server speaking JSON-RPC over stdio. It exposes
epd_panels, epd_image_info, epd_preview and epd_display. The panel model,
SPI port and pins from the config become the server's defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.FromViper(a.v)
			if err != nil {
				return err
			}

			opts := []display.Option{
				display.WithOpenOptions(s.OpenOptions()),
				display.WithThreshold(s.Threshold),
			}
			if s.Model != "" {
				model := s.Model
				opts = append(opts, display.WithGetenv(func(key string) string {
					if key == display.ModelEnv {
						return model
					}
					return ""
				}))
			}

			log.Debugf("epd-image MCP server %s (built %s, commit %s)", a.info.Version, a.info.BuildTime, a.info.GitCommit)
			return server.New(a.info.Version, opts...).Run(cmd.Context())
		},
	}
}
