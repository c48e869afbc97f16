package config

// FileName is the project configuration file looked up in the project root.
const FileName = ".classdiag.yaml"

// Config represents the complete classdiag configuration.
// It can be loaded from .classdiag.yaml with environment variable overrides.
type Config struct {
	Language string        `yaml:"language" mapstructure:"language"` // empty means detect from extensions
	Output   string        `yaml:"output" mapstructure:"output"`     // empty means stdout
	Paths    PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Diagram  DiagramConfig `yaml:"diagram" mapstructure:"diagram"`
	Server   ServerConfig  `yaml:"server" mapstructure:"server"`
	Log      LogConfig     `yaml:"log" mapstructure:"log"`
}

// PathsConfig defines which files to analyze and which to ignore.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns; empty means every extension of the language
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// DiagramConfig controls filtering and layout of the generated diagram.
type DiagramConfig struct {
	HidePrivate    bool   `yaml:"hide_private" mapstructure:"hide_private"`
	NamePrefix     string `yaml:"name_prefix" mapstructure:"name_prefix"`
	Direction      string `yaml:"direction" mapstructure:"direction"` // TB, TD, BT, LR, RL or empty
	IncludeInit    bool   `yaml:"include_init" mapstructure:"include_init"`
	MaxNodes       int    `yaml:"max_nodes" mapstructure:"max_nodes"`             // 0 means no cap
	SlideThreshold int    `yaml:"slide_threshold" mapstructure:"slide_threshold"` // entities or edges before --slides splits
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port      int `yaml:"port" mapstructure:"port"`
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`   // cached diagram responses
	MaxBodyKB int `yaml:"max_body_kb" mapstructure:"max_body_kb"` // request body limit
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn or error
	File  string `yaml:"file" mapstructure:"file"`   // optional JSONL log file
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				"bin/**",
				"obj/**",
				"build/**",
				"dist/**",
				"target/**",
				"__pycache__/**",
				".venv/**",
				"venv/**",
			},
		},
		Diagram: DiagramConfig{
			SlideThreshold: 20,
		},
		Server: ServerConfig{
			Port:      8080,
			CacheSize: 128,
			MaxBodyKB: 2048,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
