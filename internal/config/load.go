package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// LoadOptions controls configuration loading.
type LoadOptions struct {
	// ConfigFile is an explicit config file path. When empty, the
	// standard search paths are consulted.
	ConfigFile string
	// Flags, when set, is bound into the configuration with the highest
	// normal priority. Flag names use canonical dotted snake_case keys
	// (e.g. "database.host").
	Flags *pflag.FlagSet
}

// Load loads configuration with the following precedence:
// 1. Explicit overrides (password prompt / password file)
// 2. Command line flags
// 3. Environment variables (CRUDKIT_ prefix)
// 4. Config file
// 5. Default values
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Defaults (lowest priority)
	setDefaults(v)

	// --- Config file ---
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("crudkit")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/crudkit/")
		v.AddConfigPath("$HOME/.crudkit")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if opts.ConfigFile != "" {
			return nil, fmt.Errorf("failed to read config file %q: %w", opts.ConfigFile, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// --- Environment variables ---
	// Canonical keys: dot + snake_case. Env vars: CRUDKIT_DATABASE_HOST.
	v.SetEnvPrefix("CRUDKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// --- Flags (highest normal priority) ---
	if opts.Flags != nil {
		bindChangedFlags(v, opts.Flags)
	}

	// --- Password from file (explicit override) ---
	if v.GetString("database.password") == "" && v.GetString("database.password_file") != "" {
		pwd, err := readPasswordFile(v.GetString("database.password_file"))
		if err != nil {
			return nil, fmt.Errorf("failed to read database password file: %w", err)
		}
		v.Set("database.password", pwd)
	}

	// --- Interactive password prompt (explicit override) ---
	if v.GetBool("database.password_prompt") && v.GetString("database.password") == "" {
		pwd, err := promptPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to prompt for database password: %w", err)
		}
		v.Set("database.password", pwd)
	}

	// --- Unmarshal (strict) ---
	var cfg Config
	if err := v.UnmarshalExact(
		&cfg,
		viper.DecodeHook(
			mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		),
	); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// bindChangedFlags copies only explicitly-set flags into Viper, preserving
// precedence: flags > env > file > defaults.
func bindChangedFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.Visit(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}

		switch f.Value.Type() {
		case "string":
			val, _ := flags.GetString(f.Name)
			v.Set(f.Name, val)
		case "int":
			val, _ := flags.GetInt(f.Name)
			v.Set(f.Name, val)
		case "bool":
			val, _ := flags.GetBool(f.Name)
			v.Set(f.Name, val)
		case "duration":
			val, _ := flags.GetDuration(f.Name)
			v.Set(f.Name, val)
		case "stringSlice":
			val, _ := flags.GetStringSlice(f.Name)
			v.Set(f.Name, val)
		default:
			v.Set(f.Name, f.Value.String())
		}
	})
}

// DefineFlags registers the canonical configuration flags on the given
// flag set.
func DefineFlags(flags *pflag.FlagSet) {
	flags.String("database.dsn", "", "Complete MySQL DSN (user:pass@tcp(host:port)/db)")
	flags.String("database.host", "", "Database host")
	flags.Int("database.port", 0, "Database port")
	flags.String("database.user", "", "Database user")
	flags.String("database.password", "", "Database password")
	flags.String("database.password_file", "", "Path to file containing database password (use @- for stdin)")
	flags.Bool("database.password_prompt", false, "Prompt for database password securely")
	flags.String("database.database", "", "Database name")
	flags.Int("database.max_open_conns", 0, "Maximum open database connections")
	flags.Int("database.max_idle_conns", 0, "Maximum idle connections in pool")
	flags.Duration("database.conn_max_lifetime", 0, "Connection max lifetime (e.g. 5m, 30s)")
	flags.String("logging.level", "", "Log level (debug, info, warn, error)")
	flags.String("logging.format", "", "Log format (json, text)")
}

// setDefaults sets default values (lowest precedence).
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "crudkit")
	v.SetDefault("database.password", "")
	v.SetDefault("database.password_file", "")
	v.SetDefault("database.password_prompt", false)
	v.SetDefault("database.database", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("naming.plural_overrides", map[string]string{})
	v.SetDefault("naming.singular_overrides", map[string]string{})

	v.SetDefault("resources", []any{})
}

// promptPassword prompts the user for a password without echoing to terminal.
func promptPassword() (string, error) {
	fmt.Print("Enter database password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(bytePassword), nil
}

func readPasswordFile(path string) (string, error) {
	var data []byte
	var err error

	if path == "@-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
