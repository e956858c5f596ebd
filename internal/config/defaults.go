package config

const (
	defaultLogDir       = "~/.local/share/wavsift/logs"
	defaultManifestPath = "~/.local/share/wavsift/manifest.db"
	defaultLogLevel     = "info"

	// A negative max length means no upper bound.
	defaultMaxLengthMS = -1
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Filter: Filter{
			MinLengthMS: 0,
			MaxLengthMS: defaultMaxLengthMS,
		},
		Manifest: Manifest{
			Enabled: false,
			Path:    defaultManifestPath,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}
