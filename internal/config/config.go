package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Stub page formats supported by the emitter.
const (
	FormatRST      = "rst"
	FormatMarkdown = "md"
)

// Documentation build engines.
const (
	EngineSphinx = "sphinx"
	EngineMkDocs = "mkdocs"
)

// Config represents the application configuration.
type Config struct {
	Package   string          `yaml:"package"`
	Source    string          `yaml:"source,omitempty"`
	Docs      DocsConfig      `yaml:"docs,omitempty"`
	Reference ReferenceConfig `yaml:"reference,omitempty"`
	Builder   BuilderConfig   `yaml:"builder,omitempty"`
	Preview   PreviewConfig   `yaml:"preview,omitempty"`
}

// DocsConfig locates the documentation sources and build artifacts.
type DocsConfig struct {
	Directory      string `yaml:"directory,omitempty"`       // documentation source directory
	BuildDirectory string `yaml:"build_directory,omitempty"` // builder output root
}

// ReferenceConfig controls API reference stub generation.
type ReferenceConfig struct {
	Directory string `yaml:"directory,omitempty"` // where stub pages are written
	Format    string `yaml:"format,omitempty"`    // "rst" or "md"
}

// BuilderConfig describes the external documentation builder.
type BuilderConfig struct {
	Engine    string   `yaml:"engine,omitempty"`  // "sphinx" or "mkdocs"
	Command   string   `yaml:"command,omitempty"` // binary override, defaults per engine
	Strict    *bool    `yaml:"strict,omitempty"`  // treat warnings as errors (-W)
	KeepGoing *bool    `yaml:"keep_going,omitempty"`
	Args      []string `yaml:"args,omitempty"` // extra arguments passed through
}

// PreviewConfig controls the live preview server.
type PreviewConfig struct {
	Host        string   `yaml:"host,omitempty"`
	Port        int      `yaml:"port,omitempty"`
	QuietWindow Duration `yaml:"quiet_window,omitempty"` // debounce quiet window
	MaxDelay    Duration `yaml:"max_delay,omitempty"`    // debounce upper bound
	Metrics     *bool    `yaml:"metrics,omitempty"`      // expose /metrics
}

// Duration wraps time.Duration for YAML decoding of values like "300ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ApplyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default fills in a configuration with all defaults applied, used by commands
// that run without a config file on disk.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.Source == "" {
		c.Source = "."
	}
	if c.Docs.Directory == "" {
		c.Docs.Directory = "docs"
	}
	if c.Docs.BuildDirectory == "" {
		c.Docs.BuildDirectory = "docs/_build"
	}
	if c.Reference.Directory == "" {
		c.Reference.Directory = "docs/reference"
	}
	if c.Reference.Format == "" {
		c.Reference.Format = FormatRST
	}
	if c.Builder.Engine == "" {
		c.Builder.Engine = EngineSphinx
	}
	if c.Builder.Command == "" {
		switch c.Builder.Engine {
		case EngineMkDocs:
			c.Builder.Command = "mkdocs"
		default:
			c.Builder.Command = "sphinx-build"
		}
	}
	if c.Builder.Strict == nil {
		c.Builder.Strict = boolPtr(true)
	}
	if c.Builder.KeepGoing == nil {
		c.Builder.KeepGoing = boolPtr(true)
	}
	if c.Preview.Host == "" {
		c.Preview.Host = "127.0.0.1"
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = 8000
	}
	if c.Preview.QuietWindow == 0 {
		c.Preview.QuietWindow = Duration(300 * time.Millisecond)
	}
	if c.Preview.MaxDelay == 0 {
		c.Preview.MaxDelay = Duration(2 * time.Second)
	}
	if c.Preview.Metrics == nil {
		c.Preview.Metrics = boolPtr(true)
	}
}

// Validate checks enum fields after defaults have been applied.
func (c *Config) Validate() error {
	switch c.Reference.Format {
	case FormatRST, FormatMarkdown:
	default:
		return fmt.Errorf("unsupported reference format: %q (expected %q or %q)",
			c.Reference.Format, FormatRST, FormatMarkdown)
	}
	switch c.Builder.Engine {
	case EngineSphinx, EngineMkDocs:
	default:
		return fmt.Errorf("unsupported builder engine: %q (expected %q or %q)",
			c.Builder.Engine, EngineSphinx, EngineMkDocs)
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return fmt.Errorf("invalid preview port: %d", c.Preview.Port)
	}
	return nil
}

// IndexName returns the fixed index file name for the configured format.
func (c *Config) IndexName() string {
	return "api." + c.Reference.Format
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Package: "mypackage",
		Source:  ".",
		Docs: DocsConfig{
			Directory:      "docs",
			BuildDirectory: "docs/_build",
		},
		Reference: ReferenceConfig{
			Directory: "docs/reference",
			Format:    FormatRST,
		},
		Builder: BuilderConfig{
			Engine:    EngineSphinx,
			Strict:    boolPtr(true),
			KeepGoing: boolPtr(true),
		},
		Preview: PreviewConfig{
			Host:        "127.0.0.1",
			Port:        8000,
			QuietWindow: Duration(300 * time.Millisecond),
			MaxDelay:    Duration(2 * time.Second),
			Metrics:     boolPtr(true),
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	header := "# docsmith configuration\n# Values support ${ENV_VAR} expansion; a .env file is loaded when present.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// loadEnvFile loads a .env file from the working directory when present.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

func boolPtr(b bool) *bool { return &b }
