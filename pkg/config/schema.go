package config

import "fmt"

// FieldType is the value kind of a schema field.
type FieldType string

const (
	TypeNumber   FieldType = "number"
	TypeInteger  FieldType = "integer"
	TypeDuration FieldType = "duration"
	TypeColor    FieldType = "color"
)

// Field describes one tunable key. Min, Max and Step are zero for colors.
// Durations are expressed in milliseconds.
type Field struct {
	Key     string    `json:"key"`
	Type    FieldType `json:"type"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Step    float64   `json:"step"`
	Default string    `json:"default"`
}

// Schema lists every tunable key with its bounds and default value.
func Schema() []Field {
	d := Default()
	num := func(key string, v, lo, hi, step float64) Field {
		return Field{Key: key, Type: TypeNumber, Min: lo, Max: hi, Step: step, Default: fmt.Sprintf("%g", v)}
	}
	integer := func(key string, v int, lo, hi float64) Field {
		return Field{Key: key, Type: TypeInteger, Min: lo, Max: hi, Step: 1, Default: fmt.Sprintf("%d", v)}
	}
	dur := func(key string, v Duration, lo, hi, step float64) Field {
		return Field{Key: key, Type: TypeDuration, Min: lo, Max: hi, Step: step, Default: v.String()}
	}
	color := func(key, v string) Field {
		return Field{Key: key, Type: TypeColor, Default: v}
	}
	sizes := func(prefix string, s Sizes, hi, step float64) []Field {
		return []Field{
			num(prefix+".central", s.Central, 1, hi, step),
			num(prefix+".primary", s.Primary, 1, hi, step),
			num(prefix+".secondary", s.Secondary, 1, hi, step),
		}
	}

	fields := []Field{
		num("breakpoints.small", d.Breakpoints.Small, 320, 2048, 1),
		num("breakpoints.medium", d.Breakpoints.Medium, 320, 4096, 1),

		num("dimensions.min_width", d.Dimensions.MinWidth, 0, 2000, 10),
		num("dimensions.min_height", d.Dimensions.MinHeight, 0, 2000, 10),
		num("dimensions.max_width_ratio", d.Dimensions.MaxWidthRatio, 0.1, 1, 0.05),
		num("dimensions.max_height_ratio", d.Dimensions.MaxHeightRatio, 0.1, 1, 0.05),
		num("dimensions.radius_ratio", d.Dimensions.RadiusRatio, 0.1, 1, 0.05),
		num("dimensions.radius_max_ratio", d.Dimensions.RadiusMaxRatio, 0.1, 1, 0.05),
		num("dimensions.radius_min_scale", d.Dimensions.RadiusMinScale, 0.5, 5, 0.1),
		num("dimensions.inner_ratio", d.Dimensions.InnerRatio, 0.1, 1, 0.05),
		num("dimensions.spacing.mobile", d.Dimensions.Spacing.Mobile, 0, 50, 1),
		num("dimensions.spacing.tablet", d.Dimensions.Spacing.Tablet, 0, 50, 1),
		num("dimensions.spacing.desktop", d.Dimensions.Spacing.Desktop, 0, 50, 1),
	}
	for _, bp := range []struct {
		name        string
		nodes, text Sizes
	}{
		{"mobile", d.Nodes.Mobile, d.Text.Mobile},
		{"tablet", d.Nodes.Tablet, d.Text.Tablet},
		{"desktop", d.Nodes.Desktop, d.Text.Desktop},
	} {
		fields = append(fields, sizes("nodes."+bp.name, bp.nodes, 200, 1)...)
		fields = append(fields, sizes("text."+bp.name, bp.text, 72, 0.5)...)
	}
	fields = append(fields,
		color("colors.background", d.Colors.Background),
		color("colors.root", d.Colors.Root),
		color("colors.primary", d.Colors.Primary),
		color("colors.secondary", d.Colors.Secondary),
		color("colors.link", d.Colors.Link),
		color("colors.active", d.Colors.Active),
		color("colors.faded", d.Colors.Faded),
		color("colors.text", d.Colors.Text),

		dur("animation.duration", d.Animation.Duration, 0, 5000, 50),
		dur("animation.min_duration", d.Animation.MinDuration, 0, 5000, 50),
		dur("animation.max_duration", d.Animation.MaxDuration, 0, 10000, 50),
		dur("animation.frame_interval", d.Animation.FrameInterval, 1, 100, 1),
		dur("animation.pulse_period", d.Animation.PulsePeriod, 100, 10000, 100),
		num("animation.pulse_amplitude", d.Animation.PulseAmplitude, 0, 1, 0.05),

		integer("cache.max_entries", d.Cache.MaxEntries, 1, 10000),
		dur("cache.cleanup_interval", d.Cache.CleanupInterval, 0, 3600000, 1000),
		integer("cache.batch_size", d.Cache.BatchSize, 1, 100),
		dur("cache.batch_delay", d.Cache.BatchDelay, 0, 10000, 10),
		dur("cache.fetch_timeout", d.Cache.FetchTimeout, 100, 120000, 100),

		dur("resize.debounce", d.Resize.Debounce, 0, 5000, 10),
		num("resize.threshold", d.Resize.Threshold, 0, 0.5, 0.005),

		num("layout.curve_factor", d.Layout.CurveFactor, 0.1, 2, 0.05),
		num("layout.label_width", d.Layout.LabelWidth, 0.1, 2, 0.05),
	)
	return fields
}
