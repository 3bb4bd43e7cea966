package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ralt/unold/internal/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys
const (
	KeyContainerManager = "container_manager"
	KeyPackageManager   = "package_manager"
	KeyJobs             = "jobs"
	KeyTimeout          = "timeout"
	KeyReport           = "report"
	KeyArchive          = "archive"
	KeySignKey          = "sign_key"
	KeySignPassphrase   = "sign_passphrase"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. UNOLD_CONTAINER_MANAGER
const EnvPrefix = "UNOLD"

// flagKeys maps command line flags to configuration keys
var flagKeys = map[string]string{
	"container-manager": KeyContainerManager,
	"package-manager":   KeyPackageManager,
	"jobs":              KeyJobs,
	"timeout":           KeyTimeout,
	"report":            KeyReport,
	"archive":           KeyArchive,
	"sign-key":          KeySignKey,
	"sign-passphrase":   KeySignPassphrase,
}

// Load reads the check configuration. Sources from lowest to highest
// precedence: defaults, the config file, UNOLD_* environment variables and
// flags that were set. When configFile is empty, .unold.yaml is looked up in
// the working directory and in $HOME/.config/unold; it is optional.
func Load(configFile string, flags *pflag.FlagSet) (*models.CheckConfig, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".unold")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/unold")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &models.UnoldError{
				Type: models.ErrInvalidConfig,
				File: v.ConfigFileUsed(),
				Err:  fmt.Errorf("read config: %w", err),
			}
		}
	}

	var cfg models.CheckConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &models.UnoldError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("unmarshal config: %w", err),
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks for configuration errors
func Validate(cfg *models.CheckConfig) error {
	var problem error
	switch {
	case strings.TrimSpace(cfg.ContainerManager) == "":
		problem = fmt.Errorf("%s must not be empty", KeyContainerManager)
	case strings.TrimSpace(cfg.PackageManager) == "":
		problem = fmt.Errorf("%s must not be empty", KeyPackageManager)
	case cfg.Jobs < 1:
		problem = fmt.Errorf("%s must be at least 1, got %d", KeyJobs, cfg.Jobs)
	case cfg.Timeout < 0:
		problem = fmt.Errorf("%s must not be negative, got %s", KeyTimeout, cfg.Timeout)
	case cfg.SignKeyPath != "" && cfg.ReportPath == "":
		problem = fmt.Errorf("%s requires %s", KeySignKey, KeyReport)
	}

	if problem != nil {
		return &models.UnoldError{Type: models.ErrInvalidConfig, Err: problem}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyContainerManager, "podman")
	v.SetDefault(KeyPackageManager, "apk")
	v.SetDefault(KeyJobs, 1)
	v.SetDefault(KeyTimeout, time.Duration(0))
	v.SetDefault(KeyReport, "")
	v.SetDefault(KeyArchive, "")
	v.SetDefault(KeySignKey, "")
	v.SetDefault(KeySignPassphrase, "")
}
