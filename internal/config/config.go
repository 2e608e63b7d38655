package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codeberg.org/mutker/hwdash/internal/errors"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval  = 1.0
	DefaultSplash    = 2.0
	DefaultTickRate  = 0.1
	DefaultCapacity  = 120
	DefaultPrune     = 300
	DefaultLogLevel  = LogLevelInfo
	DefaultEnvPrefix = "HWDASH"

	configName = "hwdash"
	pidName    = "hwdash.pid"
)

type Config struct {
	Interval   float64 // seconds between refreshes
	Splash     float64 // seconds the splash screen stays up
	TickRate   float64 // seconds between scheduling ticks
	Capacity   int     // default samples kept per series
	Capacities map[string]int
	PruneAfter int // refreshes before an unfed series is dropped, 0 never
	Monitor    bool
	LogLevel   LogLevel
	LogFile    string
	PIDFile    string
	ConfigFile string // file actually read, empty if none
}

func (c *Config) RefreshInterval() time.Duration { return seconds(c.Interval) }
func (c *Config) SplashDuration() time.Duration { return seconds(c.Splash) }
func (c *Config) TickDuration() time.Duration { return seconds(c.TickRate) }

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Load reads configuration from defaults, the config file, HWDASH_* env
// variables and args, in increasing order of precedence. args excludes the
// program name.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{searchDirs: defaultSearchDirs()}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(DefaultEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := bindFlags(v, flags); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	if err := readConfigFile(v, o); err != nil {
		return nil, err
	}

	capacities, err := decodeCapacities(v.GetStringMap("history.capacities"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Interval:   v.GetFloat64("interval"),
		Splash:     v.GetFloat64("splash"),
		TickRate:   v.GetFloat64("tick_rate"),
		Capacity:   v.GetInt("history.capacity"),
		Capacities: capacities,
		PruneAfter: v.GetInt("history.prune_after"),
		Monitor:    v.GetBool("monitor"),
		LogLevel:   LogLevel(strings.ToLower(v.GetString("log_level"))),
		LogFile:    v.GetString("log_file"),
		PIDFile:    v.GetString("pid_file"),
		ConfigFile: v.ConfigFileUsed(),
	}

	// Set log level based on shortcuts
	if v.GetBool("debug") {
		cfg.LogLevel = LogLevelDebug
	} else if v.GetBool("verbose") && (cfg.LogLevel == LogLevelWarning || cfg.LogLevel == LogLevelError) {
		cfg.LogLevel = LogLevelInfo
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("splash", DefaultSplash)
	v.SetDefault("tick_rate", DefaultTickRate)
	v.SetDefault("history.capacity", DefaultCapacity)
	v.SetDefault("history.prune_after", DefaultPrune)
	v.SetDefault("monitor", false)
	v.SetDefault("log_level", string(DefaultLogLevel))
	v.SetDefault("log_file", "")
	v.SetDefault("pid_file", filepath.Join(os.TempDir(), pidName))
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	flags.String("config", "", "Path to the configuration file")
	flags.Float64("interval", DefaultInterval, "Seconds between refreshes")
	flags.Float64("splash", DefaultSplash, "Seconds the splash screen is shown")
	flags.Float64("tick-rate", DefaultTickRate, "Seconds between scheduling ticks")
	flags.Int("capacity", DefaultCapacity, "Samples kept per metric history")
	flags.Bool("monitor", false, "Run headless and log each refresh")
	flags.String("log-level", string(DefaultLogLevel), "Log level (debug, info, warning, error)")
	flags.String("log-file", "", "Write logs to this file")
	flags.String("pid-file", filepath.Join(os.TempDir(), pidName), "PID file used in monitor mode")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")
	return flags
}

var flagKeys = map[string]string{
	"config":    "config",
	"interval":  "interval",
	"splash":    "splash",
	"tick-rate": "tick_rate",
	"capacity":  "history.capacity",
	"monitor":   "monitor",
	"log-level": "log_level",
	"log-file":  "log_file",
	"pid-file":  "pid_file",
	"debug":     "debug",
	"verbose":   "verbose",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("flag %s: %w", name, err)
		}
	}
	return nil
}

func readConfigFile(v *viper.Viper, o *options) error {
	errFactory := errors.New()

	path := o.configPath
	if path == "" {
		path = v.GetString("config")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		for _, dir := range o.searchDirs {
			v.AddConfigPath(dir)
		}
	}
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

func defaultSearchDirs() []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, configName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", configName))
	}
	return append(dirs, filepath.Join("/etc", configName))
}

// decodeCapacities flattens the [history.capacities] table into series
// prefixes. Viper splits dotted keys, so "cpu.core" = 60 arrives nested.
func decodeCapacities(raw map[string]any) (map[string]int, error) {
	out := make(map[string]int)
	if err := flattenCapacities("", raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenCapacities(prefix string, raw map[string]any, out map[string]int) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}

		if nested, ok := raw[k].(map[string]any); ok {
			if err := flattenCapacities(name, nested, out); err != nil {
				return err
			}
			continue
		}

		n, err := cast.ToIntE(raw[k])
		if err != nil {
			return errors.New().Wrap(errors.ErrInvalidCapacity, fmt.Errorf("history.capacities.%s: %w", name, err))
		}
		out[name] = n
	}
	return nil
}

// Validate checks every value Load produced.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, fmt.Sprintf("interval must be positive, got %v", c.Interval))
	}
	if c.Splash < 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, fmt.Sprintf("splash must not be negative, got %v", c.Splash))
	}
	if c.TickRate <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, fmt.Sprintf("tick_rate must be positive, got %v", c.TickRate))
	}
	if c.Capacity < 1 {
		return errFactory.WithData(errors.ErrInvalidCapacity, fmt.Sprintf("history.capacity must be at least 1, got %d", c.Capacity))
	}
	if c.PruneAfter < 0 {
		return errFactory.WithData(errors.ErrInvalidCapacity, fmt.Sprintf("history.prune_after must not be negative, got %d", c.PruneAfter))
	}
	for name, n := range c.Capacities {
		if n < 1 {
			return errFactory.WithData(errors.ErrInvalidCapacity, fmt.Sprintf("history.capacities.%s must be at least 1, got %d", name, n))
		}
	}
	if !c.LogLevel.IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Monitor && c.PIDFile == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "pid_file is required in monitor mode")
	}

	return nil
}
