package theme

import (
	"bytes"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nodecanvas/pkg/errors"
)

const appName = "nodecanvas"

// ConfigDir returns the nodecanvas config directory
// ($XDG_CONFIG_HOME/nodecanvas, falling back to ~/.config/nodecanvas).
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// DefaultPath is where `nodecanvas theme init` writes the theme.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "theme.toml")
}

type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidFormat, "unsupported theme file %q (want .toml, .yaml or .yml)", path)
	}
}

// Load reads a theme file. Keys present in the file override [Default];
// missing keys keep their default values. The result is validated.
func Load(path string) (*Style, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "theme %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "read %s", path)
	}

	s, err := Decode(data, f == formatYAML)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTheme, err, "decode %s", path)
	}
	return s, nil
}

// Decode parses TOML (or YAML when yamlFormat is set) over the default theme
// and validates the result.
func Decode(data []byte, yamlFormat bool) (*Style, error) {
	s := Default()
	var err error
	if yamlFormat {
		err = yaml.Unmarshal(data, s)
	} else {
		err = toml.Unmarshal(data, s)
	}
	if err != nil {
		return nil, err
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes s to path in the format implied by its extension.
func Save(path string, s *Style) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, s, f == formatYAML); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Encode writes s as TOML, or as YAML when yamlFormat is set.
func Encode(w io.Writer, s *Style, yamlFormat bool) error {
	if yamlFormat {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode theme")
		}
		return enc.Close()
	}
	if err := toml.NewEncoder(w).Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode theme")
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate rejects negative or non-finite sizes, malformed colours and a
// negative animation time.
func Validate(s *Style) error {
	check := func(name string, vs ...float64) error {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return errors.New(errors.ErrCodeInvalidTheme, "%s must be a non-negative number, got %v", name, v)
			}
		}
		return nil
	}
	margin := func(name string, m Margin) error {
		return check(name, m.Left, m.Right, m.Top, m.Bottom)
	}

	sp := s.Spacing
	for _, err := range []error{
		check("spacing.item_spacing", sp.ItemSpacing.X, sp.ItemSpacing.Y),
		check("spacing.button_padding", sp.ButtonPadding.X, sp.ButtonPadding.Y),
		check("spacing.interact_size", sp.InteractSize.X, sp.InteractSize.Y),
		check("spacing", sp.Indent, sp.IconWidth, sp.IconSpacing, sp.ScrollBarWidth),
		margin("spacing.window_margin", sp.WindowMargin),
		check("text", s.Text.Small, s.Text.Body, s.Text.Monospace, s.Text.Button, s.Text.Heading),
		check("visuals", s.Visuals.WidgetStroke, s.Visuals.SelectionStroke, s.Visuals.NoodleWidth, s.Visuals.PinRadius),
		margin("node_frame.inner_margin", s.NodeFrame.InnerMargin),
		margin("node_frame.outer_margin", s.NodeFrame.OuterMargin),
		check("node_frame", s.NodeFrame.StrokeWidth, s.NodeFrame.Rounding),
	} {
		if err != nil {
			return err
		}
	}

	v := s.Visuals
	for name, c := range map[string]string{
		"background": v.Background, "node_fill": v.NodeFill, "title_fill": v.TitleFill,
		"stroke": v.Stroke, "pin": v.Pin, "noodle": v.Noodle, "text": v.Text,
	} {
		if !hexColor.MatchString(c) {
			return errors.New(errors.ErrCodeInvalidTheme, "visuals.%s must be a #rgb or #rrggbb colour, got %q", name, c)
		}
	}

	if s.AnimationTime < 0 {
		return errors.New(errors.ErrCodeInvalidTheme, "animation_time cannot be negative, got %v", s.AnimationTime)
	}
	return nil
}
