package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/playlake/internal/platform/envutil"
	"github.com/yungbote/playlake/internal/platform/objectstore"
)

// Config is the run-scoped settings object. It is loaded once at process
// start and handed to constructors; nothing reads settings after that.
type Config struct {
	LogMode string `yaml:"log_mode"`

	Input struct {
		Bucket    string `yaml:"bucket"`
		LocalRoot string `yaml:"local_root"`
		SongsRoot string `yaml:"songs_root"`
		LogsRoot  string `yaml:"logs_root"`
	} `yaml:"input"`

	Output struct {
		Bucket    string `yaml:"bucket"`
		LocalRoot string `yaml:"local_root"`
		Root      string `yaml:"root"`
	} `yaml:"output"`

	Storage struct {
		Mode            string `yaml:"mode"`
		EmulatorHost    string `yaml:"emulator_host"`
		CredentialsFile string `yaml:"credentials_file"`
		CredentialsJSON string `yaml:"credentials_json"`
	} `yaml:"storage"`

	Warehouse struct {
		DSN string `yaml:"dsn"`
	} `yaml:"warehouse"`
}

type ErrorCode string

const (
	ErrorUnreadableFile ErrorCode = "unreadable_file"
	ErrorInvalidYAML    ErrorCode = "invalid_yaml"
	ErrorInvalidStorage ErrorCode = "invalid_storage"
)

// Error is the ConfigurationError of the run: fatal before any table
// derivation begins.
type Error struct {
	Code  ErrorCode
	Path  string
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "configuration error"
	}
	msg := fmt.Sprintf("configuration error (%s)", e.Code)
	if e.Path != "" {
		msg += fmt.Sprintf(" in %q", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Overrides are caller-supplied redirections applied on top of the file,
// scoped to the Config being built rather than process-global state.
type Overrides struct {
	InputRoot  string
	OutputRoot string
}

// Load reads the settings file, applies overrides, env fallbacks, and
// defaults, and validates the storage section for both the input and
// output sides.
func Load(path string, ov Overrides) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, &Error{Code: ErrorUnreadableFile, Path: path, Cause: err}
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, &Error{Code: ErrorInvalidYAML, Path: path, Cause: err}
	}
	cfg.applyOverrides(ov)
	cfg.applyDefaults()

	for _, side := range []struct {
		name string
		sc   objectstore.Config
	}{
		{"input", cfg.InputStorage()},
		{"output", cfg.OutputStorage()},
	} {
		if err := objectstore.ValidateConfig(side.sc); err != nil {
			return cfg, &Error{
				Code:  ErrorInvalidStorage,
				Path:  path,
				Cause: fmt.Errorf("%s storage: %w", side.name, err),
			}
		}
	}
	return cfg, nil
}

// applyOverrides lets the etl binary redirect a run without editing the
// settings file. A gs:// value swaps the bucket, anything else the local
// root; the override wins over the file.
func (c *Config) applyOverrides(ov Overrides) {
	if v := strings.TrimSpace(ov.InputRoot); v != "" {
		if b, ok := strings.CutPrefix(v, "gs://"); ok {
			c.Input.Bucket = strings.Trim(b, "/")
			c.Input.LocalRoot = ""
		} else {
			c.Input.LocalRoot = v
			c.Input.Bucket = ""
		}
	}
	if v := strings.TrimSpace(ov.OutputRoot); v != "" {
		if b, ok := strings.CutPrefix(v, "gs://"); ok {
			c.Output.Bucket = strings.Trim(b, "/")
			c.Output.LocalRoot = ""
		} else {
			c.Output.LocalRoot = v
			c.Output.Bucket = ""
		}
	}
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.LogMode) == "" {
		c.LogMode = envutil.String("LOG_MODE", "development")
	}
	if strings.TrimSpace(c.Input.SongsRoot) == "" {
		c.Input.SongsRoot = "song_data"
	}
	if strings.TrimSpace(c.Input.LogsRoot) == "" {
		c.Input.LogsRoot = "log_data"
	}
	if strings.TrimSpace(c.Output.Root) == "" {
		c.Output.Root = "data"
	}
	if strings.TrimSpace(c.Storage.Mode) == "" {
		// same compatibility order the emulator deployments rely on:
		// explicit mode, then emulator host, then local roots
		switch {
		case strings.TrimSpace(c.Storage.EmulatorHost) != "":
			c.Storage.Mode = string(objectstore.ModeGCSEmulator)
		case strings.TrimSpace(c.Input.LocalRoot) != "" || strings.TrimSpace(c.Output.LocalRoot) != "":
			c.Storage.Mode = string(objectstore.ModeLocal)
		default:
			c.Storage.Mode = string(objectstore.ModeGCS)
		}
	}
	if strings.TrimSpace(c.Storage.CredentialsFile) == "" {
		c.Storage.CredentialsFile = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", "")
	}
	if strings.TrimSpace(c.Storage.CredentialsJSON) == "" {
		c.Storage.CredentialsJSON = envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	}
}

// SongsPattern is the catalog key pattern: three shard levels then the
// object itself.
func (c Config) SongsPattern() string {
	return strings.Trim(c.Input.SongsRoot, "/") + "/*/*/*/*.json"
}

// LogsPattern is the event-log key pattern, nested year/month.
func (c Config) LogsPattern() string {
	return strings.Trim(c.Input.LogsRoot, "/") + "/*/*/*.json"
}

func (c Config) InputStorage() objectstore.Config {
	return objectstore.Config{
		Mode:            objectstore.Mode(c.Storage.Mode),
		Bucket:          c.Input.Bucket,
		EmulatorHost:    c.Storage.EmulatorHost,
		CredentialsFile: c.Storage.CredentialsFile,
		CredentialsJSON: c.Storage.CredentialsJSON,
		LocalRoot:       c.Input.LocalRoot,
	}
}

func (c Config) OutputStorage() objectstore.Config {
	return objectstore.Config{
		Mode:            objectstore.Mode(c.Storage.Mode),
		Bucket:          c.Output.Bucket,
		EmulatorHost:    c.Storage.EmulatorHost,
		CredentialsFile: c.Storage.CredentialsFile,
		CredentialsJSON: c.Storage.CredentialsJSON,
		LocalRoot:       c.Output.LocalRoot,
	}
}
