package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tidwall/pretty"
)

// setupLogging configures the default charm logger on stderr. stdout is
// reserved for command output and the MCP protocol.
func setupLogging(level string, debug bool) error {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
		return nil
	}

	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetLevel(lvl)
	return nil
}

func printJSONColored(w io.Writer, data interface{}) error {
	j, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = w.Write(pretty.Color(pretty.Pretty(j), nil))
	return err
}

func printJSON(w io.Writer, data interface{}) error {
	j, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = w.Write(pretty.Pretty(j))
	return err
}
