package cmd

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/contactbook/internal/config"
	"github.com/josephgoksu/contactbook/types"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate *validator.Validate

func init() {
	validate = validator.New()
	// Report config keys rather than Go field names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		return name
	})
}

// flagBindings maps viper keys to root persistent flags.
var flagBindings = map[string]string{
	"config":     "config",
	"db":         "db",
	"format":     "format",
	"on_corrupt": "on-corrupt",
	"json":       "json",
	"verbose":    "verbose",
	"log.level":  "log-level",
	"log.format": "log-format",
}

// bindFlags binds the persistent flags to viper. It runs on every
// invocation because viper.Reset drops earlier bindings.
func bindFlags(flags *pflag.FlagSet) error {
	for key, name := range flagBindings {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// validateAppConfig performs validation on the AppConfig struct.
func validateAppConfig(cfg *types.AppConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		_, key, _ := strings.Cut(fe.Namespace(), ".")
		if fe.Tag() == "oneof" {
			msgs = append(msgs, fmt.Sprintf("%s %q must be one of: %s", key, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", ")))
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s failed rule %s", key, fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// InitConfig reads in config file and ENV variables if set, then validates
// the result into GlobalAppConfig. flags are the root persistent flags.
func InitConfig(flags *pflag.FlagSet) error {
	// It's okay if .env file doesn't exist.
	_ = godotenv.Load()

	for key, value := range config.Defaults() {
		viper.SetDefault(key, value)
	}
	if err := bindFlags(flags); err != nil {
		return err
	}

	// e.g. CONTACTBOOK_DB, CONTACTBOOK_LOG_LEVEL
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFileFlag))
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(config.ConfigName)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if cfgFileFlag != "" {
				return fmt.Errorf("read config file %s: %w", cfgFileFlag, err)
			}
			return fmt.Errorf("read config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	var cfg types.AppConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Config = viper.ConfigFileUsed()
	cfg.DB = config.ExpandPath(strings.TrimSpace(cfg.DB))
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.OnCorrupt = strings.ToLower(strings.TrimSpace(cfg.OnCorrupt))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Log.File = config.ExpandPath(strings.TrimSpace(cfg.Log.File))

	if err := validateAppConfig(&cfg); err != nil {
		return err
	}

	GlobalAppConfig = cfg
	return nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}
