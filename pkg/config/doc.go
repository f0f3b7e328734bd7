// Package config holds the navigator's configuration surface.
//
// [Config] is an explicit struct with TOML tags and documented defaults
// ([Default]). Files are decoded on top of the defaults, so a file only
// needs the keys it changes:
//
//	[animation]
//	duration = "500ms"
//
//	[cache]
//	max_entries = 100
//
// [Config.Validate] checks the required sections (dimensions, nodes, text,
// colors) and every value range. A failure is a CONFIG_VALIDATION_ERROR,
// which is fatal when a controller is constructed.
//
// [Schema] describes every tunable key (type, bounds, step, default) as
// plain data, for settings UIs and `radiant config schema`.
package config
