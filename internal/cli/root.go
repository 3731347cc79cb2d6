package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ironsheep/epd-image/internal/config"
	"github.com/ironsheep/epd-image/internal/display"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

type app struct {
	info    BuildInfo
	v       *viper.Viper
	cfgFile string
}

// NewRootCmd builds the epd-image command tree around a fresh viper instance.
func NewRootCmd(info BuildInfo) *cobra.Command {
	a := &app{info: info, v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "epd-image [flags] <image>",
		Short: "Show an image on an e-paper display",
		Long: `epd-image rotates, sizes and converts an image for an e-paper panel and
displays it. Images can be letterboxed (fit), cropped (fill) or stretched.

The panel model comes from --model, the config file or $EPD_MODEL. With
--output the frame is written to a PNG file instead of the panel.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(a.v, a.cfgFile); err != nil {
				return err
			}
			return setupLogging(a.v.GetString(config.KeyLogLevel), a.v.GetBool("debug"))
		},
		RunE: a.runRoot,
	}

	registerFlags(rootCmd, a)

	rootCmd.AddCommand(
		newPanelsCmd(a),
		newServeCmd(a),
		newGenManCmd(rootCmd),
	)
	return rootCmd
}

// Execute runs the command line and reports whether it failed.
func Execute(ctx context.Context, info BuildInfo, args []string) error {
	rootCmd := NewRootCmd(info)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Error(err)
	}
	return err
}

func (a *app) runRoot(cmd *cobra.Command, args []string) error {
	if v, err := cmd.Flags().GetBool("version"); err == nil && v {
		fmt.Fprintln(cmd.OutOrStdout(), a.versionLine())
		return nil
	}

	if v, err := cmd.Flags().GetBool("show-config"); err == nil && v {
		log.Infof("Using config file: %v", configFileLabel(a.v))
		s, err := config.FromViper(a.v)
		if err != nil {
			return err
		}
		return printJSONColored(cmd.OutOrStdout(), s)
	}

	if len(args) == 0 {
		return errors.New("no image given; see epd-image --help")
	}

	s, err := config.FromViper(a.v)
	if err != nil {
		return err
	}

	d := display.New(
		display.WithOpenOptions(s.OpenOptions()),
		display.WithThreshold(s.Threshold),
	)
	res, err := d.Show(cmd.Context(), display.Request{
		Path:     args[0],
		Mode:     s.Mode,
		Rotation: s.Rotation,
		Model:    s.Model,
		Refresh:  s.Refresh,
		Dither:   s.Dither,
		Output:   s.Output,
	})
	if err != nil {
		return err
	}

	if res.Output != "" {
		log.Infof("Wrote %dx%d %s preview for %s to %s", res.Width, res.Height, res.Format, res.Model, res.Output)
	}
	return nil
}

func (a *app) versionLine() string {
	babyBlue := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("76"))
	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	return fmt.Sprintf("%s %s %s",
		babyBlue.Render("epd-image"),
		green.Render(strings.TrimSpace(a.info.Version)),
		grey.Render(fmt.Sprintf("(built %s, commit %s)", a.info.BuildTime, a.info.GitCommit)))
}

func configFileLabel(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}
	return "none (defaults and environment)"
}
