package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/epd-image/internal/panel"
)

// isolate keeps host config files and EPD_* variables out of a test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"EPD_MODEL", "EPD_MODE", "EPD_ROTATION", "EPD_OUTPUT", "EPD_DITHER"} {
		t.Setenv(k, "")
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(BuildInfo{Version: "1.0.0", BuildTime: "now", GitCommit: "abc123"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeImage(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestVersion(t *testing.T) {
	isolate(t)
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "epd-image")
	assert.Contains(t, out, "1.0.0")
	assert.Contains(t, out, "abc123")
}

func TestDisplayToOutput(t *testing.T) {
	isolate(t)
	src := writeImage(t, 200, 100)
	dst := filepath.Join(t.TempDir(), "frame.png")

	_, err := run(t, "--model", "epd5in65f", "--mode", "fill", "-r", "90", "-o", dst, src)
	require.NoError(t, err)

	img := decodePNG(t, dst)
	assert.Equal(t, image.Rect(0, 0, 600, 448), img.Bounds())
}

func TestDisplay_ModelFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("EPD_MODEL", "inky-phat")
	src := writeImage(t, 50, 50)
	dst := filepath.Join(t.TempDir(), "frame.png")

	_, err := run(t, "-o", dst, src)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 104, 212), decodePNG(t, dst).Bounds())
}

func TestDisplay_ModelFromConfigFile(t *testing.T) {
	isolate(t)
	dst := filepath.Join(t.TempDir(), "frame.png")
	cfg := filepath.Join(t.TempDir(), "epd.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("model = \"waveshare2in13v4\"\nrotation = 270\noutput = \""+dst+"\"\n"), 0o644))

	_, err := run(t, "--config", cfg, writeImage(t, 40, 20))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 122, 250), decodePNG(t, dst).Bounds())
}

func TestDisplay_Errors(t *testing.T) {
	isolate(t)
	src := writeImage(t, 10, 10)
	out := filepath.Join(t.TempDir(), "x.png")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no model", []string{"-o", out, src}, panel.ErrConfig},
		{"unknown model", []string{"-m", "epd1in02", "-o", out, src}, panel.ErrConfig},
		{"no hardware backend", []string{"-m", "epd7in5v2", src}, panel.ErrUnsupportedDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("bad mode", func(t *testing.T) {
		_, err := run(t, "-m", "epd7in5v2", "--mode", "zoom", "-o", out, src)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mode must be one of")
	})

	t.Run("no image", func(t *testing.T) {
		_, err := run(t, "-m", "epd7in5v2")
		require.Error(t, err)
	})

	t.Run("too many images", func(t *testing.T) {
		_, err := run(t, src, src)
		require.Error(t, err)
	})
}

func TestShowConfig(t *testing.T) {
	isolate(t)
	out, err := run(t, "--show-config", "--model", "inky-what", "--rotation", "180")
	require.NoError(t, err)
	assert.Contains(t, out, "inky-what")
	assert.Contains(t, out, "180")
	assert.Contains(t, out, "pins")
}

func TestPanels(t *testing.T) {
	isolate(t)

	out, err := run(t, "panels")
	require.NoError(t, err)
	assert.Contains(t, out, "waveshare2in13v2")
	assert.Contains(t, out, "preview only")

	out, err = run(t, "panels", "--json")
	require.NoError(t, err)

	var entries []struct {
		Model  string   `json:"model"`
		Format string   `json:"format"`
		Colors []string `json:"colors"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, len(panel.Default.Models()))
}

func TestGenMan(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := run(t, "genman", dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "epd-image.1"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "epd-image-panels.1"))
	assert.NoError(t, err)
}

func TestSetupLogging(t *testing.T) {
	require.NoError(t, setupLogging("warn", false))
	require.NoError(t, setupLogging("", true))
	require.Error(t, setupLogging("chatty", false))
	require.NoError(t, setupLogging("info", false))
}
