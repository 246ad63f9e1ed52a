// Package config loads sleuth's settings. Sources are applied in order,
// later ones winning: built-in defaults, an optional YAML file, a .env
// file, the process environment and finally command-line flags.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
)

// EnvPrefix prefixes every sleuth-specific environment variable.
const EnvPrefix = "SLEUTH_"

type Config struct {
	Server      Server          `yaml:"server" json:"server"`
	Log         Log             `yaml:"log" json:"log"`
	Stream      Stream          `yaml:"stream" json:"stream"`
	Tools       map[string]Tool `yaml:"tools" json:"tools"`
	Leads       Leads           `yaml:"leads" json:"leads"`
	LinkedIn    LinkedIn        `yaml:"linkedin" json:"linkedin"`
	Storage     Storage         `yaml:"storage" json:"storage"`
	ObjectStore ObjectStore     `yaml:"object_store" json:"object_store"`
	Search      Search          `yaml:"search" json:"search"`
	Resilience  Resilience      `yaml:"resilience" json:"resilience"`
	Telemetry   Telemetry       `yaml:"telemetry" json:"telemetry"`

	ConfigFile   string `yaml:"-" json:"-"`
	EnvFile      string `yaml:"-" json:"-"`
	PrintVersion bool   `yaml:"-" json:"-"`
}

type Server struct {
	Addr              string        `yaml:"addr" json:"addr"`
	MaxConnections    int           `yaml:"max_connections" json:"max_connections"` // 0 = unlimited
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	AllowedOrigins    []string      `yaml:"allowed_origins" json:"allowed_origins"`
	StreamRateLimit   float64       `yaml:"stream_rate_limit" json:"stream_rate_limit"` // streams per second per client, 0 = off
	StreamRateBurst   int           `yaml:"stream_rate_burst" json:"stream_rate_burst"`
	MaxUploadBytes    int64         `yaml:"max_upload_bytes" json:"max_upload_bytes"`
}

type Log struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text | json
}

type Stream struct {
	MaxDuration time.Duration `yaml:"max_duration" json:"max_duration"`
	KeepAlive   time.Duration `yaml:"keepalive" json:"keepalive"`
}

// Tool configures one enumeration CLI.
type Tool struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	ExecPath  string        `yaml:"exec_path" json:"exec_path"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	KillGrace time.Duration `yaml:"kill_grace" json:"kill_grace"`
	MaxTasks  int           `yaml:"max_tasks,omitempty" json:"max_tasks,omitempty"`
}

type Leads struct {
	MaxTargets       int           `yaml:"max_targets" json:"max_targets"`
	Delay            time.Duration `yaml:"delay" json:"delay"`
	OperationTimeout time.Duration `yaml:"operation_timeout" json:"operation_timeout"`
}

type LinkedIn struct {
	Enabled     bool          `yaml:"enabled" json:"enabled"`
	SessionPath string        `yaml:"session_path" json:"session_path"` // Playwright storageState JSON
	Headless    bool          `yaml:"headless" json:"headless"`
	ChromePath  string        `yaml:"chrome_path" json:"chrome_path"`
	UserAgent   string        `yaml:"user_agent" json:"user_agent"`
	PageTimeout time.Duration `yaml:"page_timeout" json:"page_timeout"`
}

type Storage struct {
	DatabasePath string        `yaml:"database_path" json:"database_path"`
	ResultsDir   string        `yaml:"results_dir" json:"results_dir"`
	CacheSize    int           `yaml:"cache_size" json:"cache_size"`
	CacheTTL     time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// ObjectStore points at an S3-compatible bucket.
type ObjectStore struct {
	Host      string `yaml:"host" json:"host"`
	Bucket    string `yaml:"bucket" json:"bucket"`
	AccessKey string `yaml:"access_key" json:"-"`
	SecretKey string `yaml:"secret_key" json:"-"`
}

// Configured reports whether every field needed to upload is set.
func (o ObjectStore) Configured() bool {
	return o.Host != "" && o.Bucket != "" && o.AccessKey != "" && o.SecretKey != ""
}

type Search struct {
	APIKey    string        `yaml:"api_key" json:"-"`
	BaseURL   string        `yaml:"base_url" json:"base_url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	RateLimit float64       `yaml:"rate_limit" json:"rate_limit"`
}

type Resilience struct {
	CircuitBreakerEnabled     bool          `yaml:"circuit_breaker" json:"circuit_breaker"`
	CircuitBreakerThreshold   int           `yaml:"circuit_breaker_threshold" json:"circuit_breaker_threshold"`
	CircuitBreakerTimeout     time.Duration `yaml:"circuit_breaker_timeout" json:"circuit_breaker_timeout"`
	CircuitBreakerHalfOpenMax int           `yaml:"circuit_breaker_half_open_max" json:"circuit_breaker_half_open_max"`
	HTTPMaxRetries            int           `yaml:"http_max_retries" json:"http_max_retries"`
}

type Telemetry struct {
	Enabled     bool    `yaml:"enabled" json:"enabled"`
	Endpoint    string  `yaml:"endpoint" json:"endpoint"` // host:port of an OTLP/HTTP collector
	Insecure    bool    `yaml:"insecure" json:"insecure"`
	ServiceName string  `yaml:"service_name" json:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio" json:"sample_ratio"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Server: Server{
			Addr:              ":5000",
			MaxConnections:    256,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			AllowedOrigins:    []string{"*"},
			StreamRateBurst:   5,
			MaxUploadBytes:    20 << 20,
		},
		Log: Log{Level: "info", Format: "text"},
		Stream: Stream{
			MaxDuration: 30 * time.Minute,
			KeepAlive:   15 * time.Second,
		},
		Tools: map[string]Tool{
			"sherlock": {
				Enabled:   true,
				ExecPath:  "sherlock",
				Timeout:   10 * time.Minute,
				KillGrace: 5 * time.Second,
			},
			"naminter": {
				Enabled:   true,
				ExecPath:  "naminter",
				Timeout:   10 * time.Minute,
				KillGrace: 5 * time.Second,
				MaxTasks:  200,
			},
		},
		Leads: Leads{
			MaxTargets:       10,
			Delay:            3 * time.Second,
			OperationTimeout: 90 * time.Second,
		},
		LinkedIn: LinkedIn{
			Enabled:     true,
			SessionPath: "linkedin_session.json",
			Headless:    true,
			PageTimeout: 30 * time.Second,
		},
		Storage: Storage{
			DatabasePath: "sleuth.db",
			ResultsDir:   "serp_results",
			CacheSize:    128,
			CacheTTL:     10 * time.Minute,
		},
		Search: Search{
			BaseURL:   "https://serpapi.com/search.json",
			Timeout:   60 * time.Second,
			RateLimit: 1,
		},
		Resilience: Resilience{
			CircuitBreakerEnabled:     true,
			CircuitBreakerThreshold:   3,
			CircuitBreakerTimeout:     2 * time.Minute,
			CircuitBreakerHalfOpenMax: 1,
			HTTPMaxRetries:            2,
		},
		Telemetry: Telemetry{
			Endpoint:    "localhost:4318",
			Insecure:    true,
			ServiceName: "sleuth",
			SampleRatio: 1,
		},
	}
}

// Load builds the configuration from args (without the program name).
// It returns pflag.ErrHelp when help was requested.
func Load(args []string) (Config, error) {
	cfg := DefaultConfig()

	cfg.ConfigFile, cfg.EnvFile = bootstrapPaths(args)

	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return cfg, err
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv(EnvPrefix + "CONFIG")
	}
	if cfg.ConfigFile != "" {
		if err := LoadFile(cfg.ConfigFile, &cfg); err != nil {
			return cfg, err
		}
	}

	loadFromEnv(&cfg)

	fs := newFlagSet(&cfg, io.Discard)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	normalize(&cfg)
	return cfg, cfg.Validate()
}

// bootstrapPaths finds --config and --env-file before the full flag set
// exists, since both decide which values the other flags default to.
func bootstrapPaths(args []string) (configFile, envFile string) {
	fs := pflag.NewFlagSet("bootstrap", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	fs.StringVarP(&configFile, "config", "c", "", "")
	fs.StringVar(&envFile, "env-file", ".env", "")
	_ = fs.Parse(args)
	return configFile, envFile
}

// loadEnvFile copies variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(errors.ErrInvalidInput, "env file %s: %v", path, err)
	}
	return nil
}

// LoadFile merges the YAML file at path into cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "parse config %s: %v", path, err)
	}
	return nil
}

// loadFromEnv applies SLEUTH_* variables plus the unprefixed storage and
// search credentials.
func loadFromEnv(cfg *Config) {
	envString("SERVER_ADDR", &cfg.Server.Addr)
	envInt("SERVER_MAX_CONNECTIONS", &cfg.Server.MaxConnections)
	envDuration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	if v := getenv(EnvPrefix+"SERVER_ALLOWED_ORIGINS", ""); v != "" {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("LOG_FORMAT", &cfg.Log.Format)

	envDuration("STREAM_MAX_DURATION", &cfg.Stream.MaxDuration)
	envDuration("STREAM_KEEPALIVE", &cfg.Stream.KeepAlive)

	// SLEUTH_TOOLS_<NAME>_{ENABLED,EXEC_PATH,TIMEOUT,KILL_GRACE,MAX_TASKS}
	for name, tool := range cfg.Tools {
		prefix := "TOOLS_" + strings.ToUpper(name) + "_"
		envBool(prefix+"ENABLED", &tool.Enabled)
		envString(prefix+"EXEC_PATH", &tool.ExecPath)
		envDuration(prefix+"TIMEOUT", &tool.Timeout)
		envDuration(prefix+"KILL_GRACE", &tool.KillGrace)
		envInt(prefix+"MAX_TASKS", &tool.MaxTasks)
		cfg.Tools[name] = tool
	}

	envInt("LEADS_MAX_TARGETS", &cfg.Leads.MaxTargets)
	envDuration("LEADS_DELAY", &cfg.Leads.Delay)
	envDuration("LEADS_OPERATION_TIMEOUT", &cfg.Leads.OperationTimeout)

	envBool("LINKEDIN_ENABLED", &cfg.LinkedIn.Enabled)
	envString("LINKEDIN_SESSION_PATH", &cfg.LinkedIn.SessionPath)
	envBool("LINKEDIN_HEADLESS", &cfg.LinkedIn.Headless)
	envString("LINKEDIN_CHROME_PATH", &cfg.LinkedIn.ChromePath)

	envString("STORAGE_DATABASE_PATH", &cfg.Storage.DatabasePath)
	envString("STORAGE_RESULTS_DIR", &cfg.Storage.ResultsDir)

	// Historical variable names used by existing deployments.
	if v := getenv("VULTR_HOST_NAME", ""); v != "" {
		cfg.ObjectStore.Host = v
	}
	if v := getenv("VULTR_BUCKET_NAME", ""); v != "" {
		cfg.ObjectStore.Bucket = v
	}
	if v := getenv("VULTR_S3_ACCESS_KEY", ""); v != "" {
		cfg.ObjectStore.AccessKey = v
	}
	if v := getenv("VULTR_S3_SECRET_KEY", ""); v != "" {
		cfg.ObjectStore.SecretKey = v
	}
	if v := getenv("SERP_API_KEY", ""); v != "" {
		cfg.Search.APIKey = v
	}
	envString("OBJECT_STORE_HOST", &cfg.ObjectStore.Host)
	envString("OBJECT_STORE_BUCKET", &cfg.ObjectStore.Bucket)
	envString("SEARCH_API_KEY", &cfg.Search.APIKey)

	envBool("RESILIENCE_CIRCUIT_BREAKER", &cfg.Resilience.CircuitBreakerEnabled)
	envInt("RESILIENCE_CB_THRESHOLD", &cfg.Resilience.CircuitBreakerThreshold)

	envBool("TELEMETRY_ENABLED", &cfg.Telemetry.Enabled)
	envString("TELEMETRY_ENDPOINT", &cfg.Telemetry.Endpoint)
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""); v != "" && getenv(EnvPrefix+"TELEMETRY_ENDPOINT", "") == "" {
		cfg.Telemetry.Endpoint = strings.TrimPrefix(strings.TrimPrefix(v, "http://"), "https://")
	}
}

// newFlagSet binds flags to cfg. Each flag defaults to the value already
// in cfg, so unset flags keep what the file and environment produced.
func newFlagSet(cfg *Config, out io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("sleuth", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {}
	fs.SortFlags = false

	fs.StringVarP(&cfg.ConfigFile, "config", "c", cfg.ConfigFile, "YAML configuration file")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "dotenv file loaded before the environment")
	fs.BoolVarP(&cfg.PrintVersion, "version", "v", false, "print version information and exit")

	fs.StringVarP(&cfg.Server.Addr, "addr", "a", cfg.Server.Addr, "listen address")
	fs.IntVar(&cfg.Server.MaxConnections, "max-connections", cfg.Server.MaxConnections, "concurrent connection cap, 0 = unlimited")
	fs.DurationVar(&cfg.Server.ShutdownTimeout, "shutdown-timeout", cfg.Server.ShutdownTimeout, "graceful shutdown limit")
	fs.StringSliceVar(&cfg.Server.AllowedOrigins, "allowed-origins", cfg.Server.AllowedOrigins, "CORS origins")
	fs.Float64Var(&cfg.Server.StreamRateLimit, "stream-rate", cfg.Server.StreamRateLimit, "streams per second per client, 0 = off")

	fs.StringVarP(&cfg.Log.Level, "log-level", "l", cfg.Log.Level, "debug, info, warn or error")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "text or json")

	fs.DurationVar(&cfg.Stream.MaxDuration, "stream-max-duration", cfg.Stream.MaxDuration, "hard limit for one stream")
	fs.DurationVar(&cfg.Stream.KeepAlive, "stream-keepalive", cfg.Stream.KeepAlive, "idle keepalive interval, negative disables")

	names := make([]string, 0, len(cfg.Tools))
	for name := range cfg.Tools {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		bindToolFlags(fs, cfg, name)
	}

	fs.IntVar(&cfg.Leads.MaxTargets, "leads-max-targets", cfg.Leads.MaxTargets, "profiles scraped per lead stream")
	fs.DurationVar(&cfg.Leads.Delay, "leads-delay", cfg.Leads.Delay, "pause between profile scrapes")
	fs.DurationVar(&cfg.Leads.OperationTimeout, "leads-timeout", cfg.Leads.OperationTimeout, "limit for one profile scrape")

	fs.BoolVar(&cfg.LinkedIn.Enabled, "linkedin", cfg.LinkedIn.Enabled, "enable LinkedIn scraping")
	fs.StringVar(&cfg.LinkedIn.SessionPath, "linkedin-session", cfg.LinkedIn.SessionPath, "Playwright storageState file with LinkedIn cookies")
	fs.BoolVar(&cfg.LinkedIn.Headless, "linkedin-headless", cfg.LinkedIn.Headless, "run Chrome headless")

	fs.StringVar(&cfg.Storage.DatabasePath, "db", cfg.Storage.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.Storage.ResultsDir, "results-dir", cfg.Storage.ResultsDir, "directory for reverse search results")

	fs.BoolVar(&cfg.Telemetry.Enabled, "telemetry", cfg.Telemetry.Enabled, "export traces over OTLP/HTTP")
	fs.StringVar(&cfg.Telemetry.Endpoint, "telemetry-endpoint", cfg.Telemetry.Endpoint, "OTLP/HTTP collector host:port")

	return fs
}

// toolFlag writes flag values back into the map entry for one tool.
type toolFlag struct {
	cfg   *Config
	name  string
	apply func(t *Tool, v string) error
	show  func(t Tool) string
	kind  string
}

func (f *toolFlag) String() string {
	if f == nil || f.cfg == nil || f.show == nil {
		return ""
	}
	return f.show(f.cfg.Tools[f.name])
}
func (f *toolFlag) Type() string   { return f.kind }
func (f *toolFlag) Set(v string) error {
	t := f.cfg.Tools[f.name]
	if err := f.apply(&t, v); err != nil {
		return err
	}
	f.cfg.Tools[f.name] = t
	return nil
}

func bindToolFlags(fs *pflag.FlagSet, cfg *Config, name string) {
	add := func(suffix, kind, usage string, apply func(*Tool, string) error, show func(Tool) string) {
		fs.Var(&toolFlag{cfg: cfg, name: name, apply: apply, show: show, kind: kind}, name+"-"+suffix, usage)
	}

	add("enabled", "bool", "enable "+name, func(t *Tool, v string) error {
		b, err := strconv.ParseBool(v)
		t.Enabled = b
		return err
	}, func(t Tool) string { return strconv.FormatBool(t.Enabled) })
	fs.Lookup(name + "-enabled").NoOptDefVal = "true"

	add("path", "string", name+" executable", func(t *Tool, v string) error {
		t.ExecPath = v
		return nil
	}, func(t Tool) string { return t.ExecPath })

	add("timeout", "duration", "limit for one "+name+" run", func(t *Tool, v string) error {
		d, err := time.ParseDuration(v)
		t.Timeout = d
		return err
	}, func(t Tool) string { return t.Timeout.String() })

	if cfg.Tools[name].MaxTasks > 0 {
		add("max-tasks", "int", name+" concurrency", func(t *Tool, v string) error {
			n, err := strconv.Atoi(v)
			t.MaxTasks = n
			return err
		}, func(t Tool) string { return strconv.Itoa(t.MaxTasks) })
	}
}

func normalize(c *Config) {
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.ObjectStore.Host = strings.TrimSuffix(strings.TrimPrefix(c.ObjectStore.Host, "https://"), "/")
	if c.Server.MaxConnections < 0 {
		c.Server.MaxConnections = 0
	}
	for name, t := range c.Tools {
		if t.ExecPath == "" {
			t.ExecPath = name
		}
		c.Tools[name] = t
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.Wrap(errors.ErrInvalidInput, "server.addr is required")
	case c.Stream.MaxDuration <= 0:
		return errors.Wrap(errors.ErrInvalidInput, "stream.max_duration must be positive")
	case c.Leads.MaxTargets <= 0:
		return errors.Wrap(errors.ErrInvalidInput, "leads.max_targets must be positive")
	case c.Leads.Delay < 0:
		return errors.Wrap(errors.ErrInvalidInput, "leads.delay cannot be negative")
	case c.Leads.OperationTimeout <= 0:
		return errors.Wrap(errors.ErrInvalidInput, "leads.operation_timeout must be positive")
	case c.Log.Format != "text" && c.Log.Format != "json":
		return errors.Wrapf(errors.ErrInvalidInput, "log.format %q must be text or json", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "log.level %q is not a level", c.Log.Level)
	}
	for name, t := range c.Tools {
		if t.Timeout < 0 {
			return errors.Wrapf(errors.ErrInvalidInput, "tools.%s.timeout cannot be negative", name)
		}
		if t.MaxTasks < 0 {
			return errors.Wrapf(errors.ErrInvalidInput, "tools.%s.max_tasks cannot be negative", name)
		}
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return errors.Wrap(errors.ErrInvalidInput, "telemetry.sample_ratio must be within [0,1]")
	}
	return nil
}

// ToolConfigs converts the tool table for the registry.
func (c Config) ToolConfigs() map[string]ports.ToolConfig {
	out := make(map[string]ports.ToolConfig, len(c.Tools))
	for name, t := range c.Tools {
		custom := map[string]any{"exec_path": t.ExecPath}
		if t.MaxTasks > 0 {
			custom["max_tasks"] = t.MaxTasks
		}
		out[name] = ports.ToolConfig{
			Enabled:   t.Enabled,
			Timeout:   t.Timeout,
			KillGrace: t.KillGrace,
			Custom:    custom,
		}
	}
	return out
}

// ToJSON renders the configuration without secrets.
func (c Config) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c Config) String() string {
	return fmt.Sprintf("Config{addr=%s tools=%d leads.max=%d object_store=%t search=%t}",
		c.Server.Addr, len(c.Tools), c.Leads.MaxTargets, c.ObjectStore.Configured(), c.Search.APIKey != "")
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func envString(key string, dst *string) {
	if v := getenv(EnvPrefix+key, ""); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := getenv(EnvPrefix+key, ""); v != "" {
		*dst = parseInt(v, *dst)
	}
}

func envBool(key string, dst *bool) {
	if v := getenv(EnvPrefix+key, ""); v != "" {
		*dst = parseBool(v)
	}
}

// envDuration accepts Go durations ("90s") or bare seconds ("90").
func envDuration(key string, dst *time.Duration) {
	v := strings.TrimSpace(getenv(EnvPrefix+key, ""))
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(n) * time.Second
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
