package objectstore

import (
	"fmt"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeGCS         Mode = "gcs"
	ModeGCSEmulator Mode = "gcs_emulator"
	ModeLocal       Mode = "local"
)

// Config is resolved once at startup from the settings file and passed to
// New; stores never read process-global state themselves.
type Config struct {
	Mode            Mode
	Bucket          string
	EmulatorHost    string
	CredentialsFile string
	CredentialsJSON string
	LocalRoot       string
}

func IsSupportedMode(mode Mode) bool {
	switch mode {
	case ModeGCS, ModeGCSEmulator, ModeLocal:
		return true
	default:
		return false
	}
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidMode         ConfigErrorCode = "invalid_mode"
	ConfigErrorMissingBucket       ConfigErrorCode = "missing_bucket"
	ConfigErrorMissingCredentials  ConfigErrorCode = "missing_credentials"
	ConfigErrorMissingEmulatorHost ConfigErrorCode = "missing_emulator_host"
	ConfigErrorInvalidEmulatorHost ConfigErrorCode = "invalid_emulator_host"
	ConfigErrorMissingLocalRoot    ConfigErrorCode = "missing_local_root"
)

type ConfigError struct {
	Code         ConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ConfigErrorInvalidMode:
		return fmt.Sprintf(
			"invalid storage mode %q (allowed: %q, %q, %q)",
			e.Mode, ModeGCS, ModeGCSEmulator, ModeLocal,
		)
	case ConfigErrorMissingBucket:
		return fmt.Sprintf("storage mode %q requires a bucket name", e.Mode)
	case ConfigErrorMissingCredentials:
		return fmt.Sprintf("storage mode %q requires credentials_file or credentials_json", e.Mode)
	case ConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("storage mode %q requires emulator_host to be set", ModeGCSEmulator)
	case ConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf(
			"invalid emulator_host %q; expected absolute URL like http://fake-gcs:4443",
			e.EmulatorHost,
		)
	case ConfigErrorMissingLocalRoot:
		return fmt.Sprintf("storage mode %q requires local_root to be set", ModeLocal)
	default:
		return "invalid object storage config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func ValidateConfig(cfg Config) error {
	if !IsSupportedMode(cfg.Mode) {
		return &ConfigError{Code: ConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	switch cfg.Mode {
	case ModeGCS:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(cfg.Mode)}
		}
		if strings.TrimSpace(cfg.CredentialsFile) == "" && strings.TrimSpace(cfg.CredentialsJSON) == "" {
			return &ConfigError{Code: ConfigErrorMissingCredentials, Mode: string(cfg.Mode)}
		}
	case ModeGCSEmulator:
		if strings.TrimSpace(cfg.Bucket) == "" {
			return &ConfigError{Code: ConfigErrorMissingBucket, Mode: string(cfg.Mode)}
		}
		host := strings.TrimSpace(cfg.EmulatorHost)
		if host == "" {
			return &ConfigError{Code: ConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
		}
		parsed, err := url.Parse(host)
		if err != nil || strings.TrimSpace(parsed.Scheme) == "" || strings.TrimSpace(parsed.Host) == "" {
			return &ConfigError{
				Code:         ConfigErrorInvalidEmulatorHost,
				Mode:         string(cfg.Mode),
				EmulatorHost: host,
				Cause:        err,
			}
		}
	case ModeLocal:
		if strings.TrimSpace(cfg.LocalRoot) == "" {
			return &ConfigError{Code: ConfigErrorMissingLocalRoot, Mode: string(cfg.Mode)}
		}
	}
	return nil
}
