package cli

import (
	"bytes"
	"context"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/noisering/pkg/config"
	"github.com/matzehuels/noisering/pkg/errors"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"animate", "completion", "config", "preview", "render", "serve"}
	got := map[string]*cobra.Command{}
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = cmd
	}
	for _, name := range want {
		if got[name] == nil {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if !root.SilenceUsage {
		t.Error("root command should silence usage on errors")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if !strings.HasPrefix(out, "noisering version ") {
		t.Errorf("--version = %q", out)
	}
}

func TestRenderCommandPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "frame.png")
	out, err := execute(t, "render", "--size", "48", "-t", "100", "-o", path)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output does not mention %s:\n%s", path, out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig() error: %v", err)
	}
	if cfg.Width != 48 || cfg.Height != 48 {
		t.Errorf("image = %dx%d, want 48x48", cfg.Width, cfg.Height)
	}
}

func TestRenderCommandANSIStdout(t *testing.T) {
	out, err := execute(t, "render", "-f", "ansi", "--size", "32", "--cols", "12", "--rows", "6")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if n := strings.Count(out, "\n"); n != 6 {
		t.Errorf("ANSI output has %d lines, want 6", n)
	}
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"format", []string{"render", "-f", "svg"}, errors.ErrCodeInvalidFormat},
		{"variant", []string{"render", "--variant", "spiral"}, errors.ErrCodeInvalidVariant},
		{"sides", []string{"render", "--sides", "2"}, errors.ErrCodeInvalidConfig},
		{"size", []string{"render", "--size", "0"}, errors.ErrCodeInvalidConfig},
		{"negative frame", []string{"render", "-t", "-5"}, errors.ErrCodeInvalidFrame},
		{"negative start", []string{"animate", "--start", "-3", "-n", "2"}, errors.ErrCodeInvalidFrame},
		{"negative preview frame", []string{"preview", "--frame", "-1"}, errors.ErrCodeInvalidFrame},
		{"palette", []string{"animate", "--palette", "sepia", "-n", "2"}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestAnimateCommandGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rings.gif")
	if _, err := execute(t, "animate", "--size", "24", "-n", "3", "-o", path); err != nil {
		t.Fatalf("animate error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("DecodeAll() error: %v", err)
	}
	if len(g.Image) != 3 {
		t.Errorf("GIF has %d frames, want 3", len(g.Image))
	}
}

func TestAnimateCommandGrayDither(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gray.gif")
	if _, err := execute(t, "animate", "--size", "24", "-n", "2", "--palette", "gray", "--dither", "-o", path); err != nil {
		t.Fatalf("animate error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("DecodeAll() error: %v", err)
	}
	for _, c := range g.Image[0].Palette {
		r, gr, b, _ := c.RGBA()
		if r != gr || gr != b {
			t.Fatalf("palette entry %v is not gray", c)
		}
	}
}

func TestAnimateCommandPNGSequence(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "seq")
	if _, err := execute(t, "animate", "-f", "png", "--size", "16", "--start", "5", "-n", "2", "-o", dir); err != nil {
		t.Fatalf("animate error: %v", err)
	}
	for _, name := range []string{"frame-000005.png", "frame-000006.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--variant", "polygon", "--seed", "9")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	cfg, err := config.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if cfg.Rings.Sides != 10 || cfg.Noise.Seed != 9 {
		t.Errorf("sides = %d, seed = %d; want 10, 9", cfg.Rings.Sides, cfg.Noise.Seed)
	}
}

func TestConfigValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(good, []byte("[rings]\nsides = 12\n"), 0o644)
	os.WriteFile(bad, []byte("[rings]\nsidez = 12\n"), 0o644)

	if _, err := execute(t, "config", "validate", good); err != nil {
		t.Errorf("validate(good) error: %v", err)
	}
	out, err := execute(t, "config", "validate", good, bad)
	if err == nil {
		t.Fatal("validate(bad) should fail")
	}
	if !strings.Contains(out, "sidez") {
		t.Errorf("output should name the unknown key:\n%s", out)
	}
}

func TestConfigVariantsCommand(t *testing.T) {
	out, err := execute(t, "config", "variants")
	if err != nil {
		t.Fatalf("variants error: %v", err)
	}
	for _, v := range config.Variants() {
		if !strings.Contains(out, string(v)) {
			t.Errorf("output does not list %q", v)
		}
	}
	if !strings.Contains(out, "65 rings of 20 sides") {
		t.Errorf("animated variant summary missing:\n%s", out)
	}
}

func TestSketchFlagsPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sketch.toml")
	os.WriteFile(path, []byte("[rings]\nsides = 7\n\n[noise]\nseed = 3\n"), 0o644)

	tests := []struct {
		name      string
		args      []string
		wantSides int
		wantSeed  int64
		wantMode  string
	}{
		{"variant only", []string{"--variant", "rings"}, 20, 0, "none"},
		{"file over variant", []string{"--variant", "polygon", "-c", path}, 7, 3, "none"},
		{"flag over file", []string{"-c", path, "--sides", "9"}, 9, 3, "animated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			var s sketchFlags
			cmd := &cobra.Command{Use: "test"}
			s.bind(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			cfg, err := s.resolve()
			if err != nil {
				t.Fatalf("resolve() error: %v", err)
			}
			if cfg.Rings.Sides != tt.wantSides || cfg.Noise.Seed != tt.wantSeed || string(cfg.Distortion.Mode) != tt.wantMode {
				t.Errorf("sides=%d seed=%d mode=%s, want %d %d %s",
					cfg.Rings.Sides, cfg.Noise.Seed, cfg.Distortion.Mode, tt.wantSides, tt.wantSeed, tt.wantMode)
			}
		})
	}
}
