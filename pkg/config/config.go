package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/radiant/pkg/content"
	rerrors "github.com/matzehuels/radiant/pkg/errors"
	"github.com/matzehuels/radiant/pkg/layout"
	"github.com/matzehuels/radiant/pkg/transition"
	"github.com/matzehuels/radiant/pkg/viewport"
)

// =============================================================================
// Sections
// =============================================================================

// Config is the complete configuration.
type Config struct {
	Breakpoints viewport.Breakpoints `toml:"breakpoints"`
	Dimensions  Dimensions           `toml:"dimensions"`
	Nodes       PerBreakpoint        `toml:"nodes"`
	Text        PerBreakpoint        `toml:"text"`
	Colors      Colors               `toml:"colors"`
	Animation   Animation            `toml:"animation"`
	Cache       Cache                `toml:"cache"`
	Resize      Resize               `toml:"resize"`
	Layout      Layout               `toml:"layout"`
}

// Dimensions bounds the drawing area and the rings.
type Dimensions struct {
	MinWidth       float64 `toml:"min_width"`
	MinHeight      float64 `toml:"min_height"`
	MaxWidthRatio  float64 `toml:"max_width_ratio"`
	MaxHeightRatio float64 `toml:"max_height_ratio"`
	RadiusRatio    float64 `toml:"radius_ratio"`
	RadiusMaxRatio float64 `toml:"radius_max_ratio"`
	RadiusMinScale float64 `toml:"radius_min_scale"`
	InnerRatio     float64 `toml:"inner_ratio"`
	Spacing        Spacing `toml:"spacing"`
}

// Spacing is the gap between a secondary node and its label, per breakpoint.
type Spacing struct {
	Mobile  float64 `toml:"mobile"`
	Tablet  float64 `toml:"tablet"`
	Desktop float64 `toml:"desktop"`
}

// Sizes holds one value per hierarchy depth.
type Sizes struct {
	Central   float64 `toml:"central"`
	Primary   float64 `toml:"primary"`
	Secondary float64 `toml:"secondary"`
}

// PerBreakpoint holds per-depth sizes for each breakpoint. It is used for
// both node sizes and font sizes.
type PerBreakpoint struct {
	Mobile  Sizes `toml:"mobile"`
	Tablet  Sizes `toml:"tablet"`
	Desktop Sizes `toml:"desktop"`
}

// Colors are CSS hex colors used by the renderers.
type Colors struct {
	Background string `toml:"background"`
	Root       string `toml:"root"`
	Primary    string `toml:"primary"`
	Secondary  string `toml:"secondary"`
	Link       string `toml:"link"`
	Active     string `toml:"active"`
	Faded      string `toml:"faded"`
	Text       string `toml:"text"`
}

// Animation configures transitions and the pulse loop.
type Animation struct {
	Duration       Duration `toml:"duration"`
	MinDuration    Duration `toml:"min_duration"`
	MaxDuration    Duration `toml:"max_duration"`
	FrameInterval  Duration `toml:"frame_interval"`
	PulsePeriod    Duration `toml:"pulse_period"`
	PulseAmplitude float64  `toml:"pulse_amplitude"`
}

// Cache configures the content cache and its preload queue.
type Cache struct {
	MaxEntries      int      `toml:"max_entries"`
	CleanupInterval Duration `toml:"cleanup_interval"`
	BatchSize       int      `toml:"batch_size"`
	BatchDelay      Duration `toml:"batch_delay"`
	FetchTimeout    Duration `toml:"fetch_timeout"`
}

// Resize configures the resize watcher.
type Resize struct {
	Debounce  Duration `toml:"debounce"`
	Threshold float64  `toml:"threshold"`
}

// Layout configures link curves and label wrapping.
type Layout struct {
	CurveFactor float64 `toml:"curve_factor"`
	LabelWidth  float64 `toml:"label_width"`
}

// =============================================================================
// Defaults
// =============================================================================

// Default returns the built-in configuration.
func Default() Config {
	vs := viewport.DefaultSettings()
	ds := transition.DefaultDurations()
	co := content.DefaultOptions()
	lo := layout.Options{}.WithDefaults()

	nodes := func(p viewport.Profile) Sizes {
		return Sizes{Central: p.CentralNodeSize, Primary: p.PrimaryNodeSize, Secondary: p.SecondaryNodeSize}
	}
	fonts := func(p viewport.Profile) Sizes {
		return Sizes{Central: p.CentralFontSize, Primary: p.PrimaryFontSize, Secondary: p.SecondaryFontSize}
	}

	return Config{
		Breakpoints: vs.Breakpoints,
		Dimensions: Dimensions{
			MinWidth:       vs.MinWidth,
			MinHeight:      vs.MinHeight,
			MaxWidthRatio:  vs.MaxWidthRatio,
			MaxHeightRatio: vs.MaxHeightRatio,
			RadiusRatio:    vs.RadiusRatio,
			RadiusMaxRatio: vs.RadiusMaxRatio,
			RadiusMinScale: vs.RadiusMinScale,
			InnerRatio:     vs.InnerRatio,
			Spacing:        Spacing{Mobile: vs.Mobile.Spacing, Tablet: vs.Tablet.Spacing, Desktop: vs.Desktop.Spacing},
		},
		Nodes: PerBreakpoint{Mobile: nodes(vs.Mobile), Tablet: nodes(vs.Tablet), Desktop: nodes(vs.Desktop)},
		Text:  PerBreakpoint{Mobile: fonts(vs.Mobile), Tablet: fonts(vs.Tablet), Desktop: fonts(vs.Desktop)},
		Colors: Colors{
			Background: "#ffffff",
			Root:       "#1f2937",
			Primary:    "#2563eb",
			Secondary:  "#60a5fa",
			Link:       "#94a3b8",
			Active:     "#f59e0b",
			Faded:      "#e5e7eb",
			Text:       "#111827",
		},
		Animation: Animation{
			Duration:       Duration{ds.Default},
			MinDuration:    Duration{ds.Min},
			MaxDuration:    Duration{ds.Max},
			FrameInterval:  Duration{transition.DefaultFrameInterval},
			PulsePeriod:    Duration{1500 * time.Millisecond},
			PulseAmplitude: 0.3,
		},
		Cache: Cache{
			MaxEntries:      co.MaxEntries,
			CleanupInterval: Duration{co.CleanupInterval},
			BatchSize:       co.BatchSize,
			BatchDelay:      Duration{co.BatchDelay},
			FetchTimeout:    Duration{co.FetchTimeout},
		},
		Resize: Resize{
			Debounce:  Duration{viewport.DefaultDebounce},
			Threshold: viewport.RelayoutThreshold,
		},
		Layout: Layout{CurveFactor: lo.CurveFactor, LabelWidth: lo.LabelWidth},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads a TOML file on top of [Default] and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, rerrors.Wrap(rerrors.ErrCodeConfigValidation, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML on top of [Default] and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, rerrors.Wrap(rerrors.ErrCodeConfigValidation, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, rerrors.New(rerrors.ErrCodeConfigValidation, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the configuration as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Validation
// =============================================================================

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate checks required sections and value ranges.
func (c Config) Validate() error {
	fail := func(format string, args ...any) error {
		return rerrors.New(rerrors.ErrCodeConfigValidation, format, args...)
	}

	var missing []string
	if c.Dimensions == (Dimensions{}) {
		missing = append(missing, "dimensions")
	}
	if c.Nodes == (PerBreakpoint{}) {
		missing = append(missing, "nodes")
	}
	if c.Text == (PerBreakpoint{}) {
		missing = append(missing, "text")
	}
	if c.Colors == (Colors{}) {
		missing = append(missing, "colors")
	}
	if len(missing) > 0 {
		return fail("missing required config sections: %s", strings.Join(missing, ", "))
	}

	if err := c.Viewport().Validate(); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeConfigValidation, err, "invalid sizing")
	}
	if err := c.Durations().Validate(); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeConfigValidation, err, "invalid animation")
	}

	colors := map[string]string{
		"background": c.Colors.Background, "root": c.Colors.Root,
		"primary": c.Colors.Primary, "secondary": c.Colors.Secondary,
		"link": c.Colors.Link, "active": c.Colors.Active,
		"faded": c.Colors.Faded, "text": c.Colors.Text,
	}
	for name, v := range colors {
		if !hexColor.MatchString(v) {
			return fail("colors.%s must be a hex color, got %q", name, v)
		}
	}

	switch {
	case c.Animation.FrameInterval.Duration <= 0:
		return fail("animation.frame_interval must be positive")
	case c.Animation.PulsePeriod.Duration <= 0:
		return fail("animation.pulse_period must be positive")
	case c.Animation.PulseAmplitude < 0 || c.Animation.PulseAmplitude > 1:
		return fail("animation.pulse_amplitude must be in [0, 1], got %g", c.Animation.PulseAmplitude)
	case c.Cache.MaxEntries < 1:
		return fail("cache.max_entries must be at least 1, got %d", c.Cache.MaxEntries)
	case c.Cache.BatchSize < 1:
		return fail("cache.batch_size must be at least 1, got %d", c.Cache.BatchSize)
	case c.Cache.BatchDelay.Duration < 0 || c.Cache.CleanupInterval.Duration < 0:
		return fail("cache durations must not be negative")
	case c.Cache.FetchTimeout.Duration <= 0:
		return fail("cache.fetch_timeout must be positive")
	case c.Resize.Debounce.Duration < 0:
		return fail("resize.debounce must not be negative")
	case c.Resize.Threshold < 0 || c.Resize.Threshold >= 1:
		return fail("resize.threshold must be in [0, 1), got %g", c.Resize.Threshold)
	case c.Layout.CurveFactor <= 0 || c.Layout.CurveFactor > 2:
		return fail("layout.curve_factor must be in (0, 2], got %g", c.Layout.CurveFactor)
	case c.Layout.LabelWidth <= 0 || c.Layout.LabelWidth > 2:
		return fail("layout.label_width must be in (0, 2], got %g", c.Layout.LabelWidth)
	}
	return nil
}

// =============================================================================
// Conversions
// =============================================================================

// Viewport returns the resolver settings.
func (c Config) Viewport() viewport.Settings {
	profile := func(nodes, text Sizes, spacing float64) viewport.Profile {
		return viewport.Profile{
			CentralNodeSize:   nodes.Central,
			PrimaryNodeSize:   nodes.Primary,
			SecondaryNodeSize: nodes.Secondary,
			CentralFontSize:   text.Central,
			PrimaryFontSize:   text.Primary,
			SecondaryFontSize: text.Secondary,
			Spacing:           spacing,
		}
	}
	d := c.Dimensions
	return viewport.Settings{
		Breakpoints:    c.Breakpoints,
		Mobile:         profile(c.Nodes.Mobile, c.Text.Mobile, d.Spacing.Mobile),
		Tablet:         profile(c.Nodes.Tablet, c.Text.Tablet, d.Spacing.Tablet),
		Desktop:        profile(c.Nodes.Desktop, c.Text.Desktop, d.Spacing.Desktop),
		MinWidth:       d.MinWidth,
		MinHeight:      d.MinHeight,
		MaxWidthRatio:  d.MaxWidthRatio,
		MaxHeightRatio: d.MaxHeightRatio,
		RadiusRatio:    d.RadiusRatio,
		RadiusMaxRatio: d.RadiusMaxRatio,
		RadiusMinScale: d.RadiusMinScale,
		InnerRatio:     d.InnerRatio,
	}
}

// Durations returns the animation bounds.
func (c Config) Durations() transition.Durations {
	return transition.Durations{
		Default: c.Animation.Duration.Duration,
		Min:     c.Animation.MinDuration.Duration,
		Max:     c.Animation.MaxDuration.Duration,
	}
}

// Pulse returns the pulse loop options.
func (c Config) Pulse() transition.PulseOptions {
	return transition.PulseOptions{
		Period:    c.Animation.PulsePeriod.Duration,
		Amplitude: c.Animation.PulseAmplitude,
		Frame:     c.Animation.FrameInterval.Duration,
	}
}

// CacheOptions returns the content cache options.
func (c Config) CacheOptions() []content.Option {
	return []content.Option{
		content.WithMaxEntries(c.Cache.MaxEntries),
		content.WithCleanupInterval(c.Cache.CleanupInterval.Duration),
		content.WithBatch(c.Cache.BatchSize, c.Cache.BatchDelay.Duration),
		content.WithFetchTimeout(c.Cache.FetchTimeout.Duration),
	}
}

// LayoutOptions returns the layout engine options.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{CurveFactor: c.Layout.CurveFactor, LabelWidth: c.Layout.LabelWidth}
}

// =============================================================================
// Duration
// =============================================================================

// Duration is a time.Duration that reads and writes as text ("250ms").
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}
