package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goto/salt/config"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/goto/truora/pkg/http"
	"github.com/goto/truora/pkg/opentelemetry"
)

const envPrefix = "TRUORA"

// InlineCredential lets a credential be configured without the credential
// store, e.g. through TRUORA_CREDENTIAL_API_KEY
type InlineCredential struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

func (c InlineCredential) IsSet() bool {
	return c.APIKey != ""
}

type Config struct {
	LogLevel            string               `mapstructure:"log_level" default:"info"`
	CredentialsFile     string               `mapstructure:"credentials_file"`
	AuditFile           string               `mapstructure:"audit_file"`
	EncryptionSecretKey string               `mapstructure:"encryption_secret_key"`
	Credential          InlineCredential     `mapstructure:"credential"`
	HTTP                http.Config          `mapstructure:"http"`
	Telemetry           opentelemetry.Config `mapstructure:"telemetry"`
}

func Load(configFile string) (Config, error) {
	var cfg Config
	loader := config.NewLoader(
		config.WithFile(configFile),
		config.WithEnvPrefix(envPrefix),
		config.WithEnvKeyReplacer(".", "_"),
		config.WithDecoderConfigOption(viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				config.StringToJsonFunc(),
			),
		)),
	)

	// defaults and env values are loaded even without a config file
	if err := loader.Load(&cfg); err != nil && !errors.As(err, &config.ConfigFileNotFoundError{}) {
		return Config{}, err
	}

	if cfg.CredentialsFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.CredentialsFile = filepath.Join(home, ".config", "truora", "credentials.yaml")
	}
	if cfg.AuditFile == "" {
		cfg.AuditFile = filepath.Join(filepath.Dir(cfg.CredentialsFile), "audit.log")
	}

	return cfg, nil
}
