package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	perrors "sleuth/internal/platform/errors"
	"sleuth/internal/testutil"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestGetenv(t *testing.T) {
	t.Setenv("SLEUTH_TEST_KEY", "custom")

	testutil.AssertEqual(t, getenv("SLEUTH_TEST_KEY", "default"), "custom", "set variable")
	testutil.AssertEqual(t, getenv("SLEUTH_TEST_MISSING", "default"), "default", "missing variable")
}

func TestParseHelpers(t *testing.T) {
	testutil.AssertTrue(t, parseBool("YES"), "yes")
	testutil.AssertTrue(t, parseBool(" on "), "on")
	testutil.AssertFalse(t, parseBool("nope"), "unknown is false")
	testutil.AssertEqual(t, parseInt("42", 1), 42, "int")
	testutil.AssertEqual(t, parseInt("x", 7), 7, "fallback")
	testutil.AssertEqual(t, splitList(" a, ,b ,"), []string{"a", "b"}, "list")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	testutil.AssertEqual(t, cfg.Server.Addr, ":5000", "addr")
	testutil.AssertEqual(t, cfg.Leads.MaxTargets, 10, "max targets")
	testutil.AssertEqual(t, cfg.Leads.Delay, 3*time.Second, "delay")
	testutil.AssertEqual(t, cfg.Tools["naminter"].MaxTasks, 200, "naminter tasks")
	testutil.AssertTrue(t, cfg.Tools["sherlock"].Enabled, "sherlock enabled")
	testutil.AssertNoError(t, cfg.Validate(), "defaults are valid")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{"--env-file="})
	testutil.AssertNoError(t, err, "load")
	testutil.AssertEqual(t, cfg.Server.Addr, ":5000", "addr")
}

func TestLoad_Precedence(t *testing.T) {
	file := writeFile(t, "sleuth.yaml", `
server:
  addr: ":7000"
  max_connections: 32
leads:
  max_targets: 4
  delay: 1s
log:
  level: debug
`)
	t.Setenv("SLEUTH_LEADS_MAX_TARGETS", "6")
	t.Setenv("SLEUTH_LOG_FORMAT", "json")

	cfg, err := Load([]string{"--env-file=", "-c", file, "--leads-delay", "250ms"})
	testutil.AssertNoError(t, err, "load")

	testutil.AssertEqual(t, cfg.Server.Addr, ":7000", "file overrides default")
	testutil.AssertEqual(t, cfg.Server.MaxConnections, 32, "file value")
	testutil.AssertEqual(t, cfg.Leads.MaxTargets, 6, "env overrides file")
	testutil.AssertEqual(t, cfg.Leads.Delay, 250*time.Millisecond, "flag overrides file")
	testutil.AssertEqual(t, cfg.Log.Level, "debug", "file level")
	testutil.AssertEqual(t, cfg.Log.Format, "json", "env format")
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "VULTR_HOST_NAME=ewr1.vultrobjects.com\nVULTR_BUCKET_NAME=faces\nVULTR_S3_ACCESS_KEY=ak\nVULTR_S3_SECRET_KEY=sk\nSERP_API_KEY=serp\n")
	for _, k := range []string{"VULTR_HOST_NAME", "VULTR_BUCKET_NAME", "VULTR_S3_ACCESS_KEY", "VULTR_S3_SECRET_KEY", "SERP_API_KEY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load([]string{"--env-file", envFile})
	testutil.AssertNoError(t, err, "load")

	testutil.AssertEqual(t, cfg.ObjectStore.Host, "ewr1.vultrobjects.com", "host")
	testutil.AssertEqual(t, cfg.ObjectStore.Bucket, "faces", "bucket")
	testutil.AssertTrue(t, cfg.ObjectStore.Configured(), "object store configured")
	testutil.AssertEqual(t, cfg.Search.APIKey, "serp", "search key")
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	_, err := Load([]string{"--env-file", filepath.Join(t.TempDir(), "absent.env")})
	testutil.AssertNoError(t, err, "missing env file")
}

func TestLoad_ToolSettings(t *testing.T) {
	t.Setenv("SLEUTH_TOOLS_SHERLOCK_TIMEOUT", "120")

	cfg, err := Load([]string{"--env-file=", "--naminter-max-tasks", "50", "--sherlock-path", "/opt/sherlock", "--naminter-enabled=false"})
	testutil.AssertNoError(t, err, "load")

	testutil.AssertEqual(t, cfg.Tools["sherlock"].Timeout, 2*time.Minute, "bare seconds from env")
	testutil.AssertEqual(t, cfg.Tools["sherlock"].ExecPath, "/opt/sherlock", "path flag")
	testutil.AssertEqual(t, cfg.Tools["naminter"].MaxTasks, 50, "max tasks flag")
	testutil.AssertFalse(t, cfg.Tools["naminter"].Enabled, "disabled by flag")

	tc := cfg.ToolConfigs()
	testutil.AssertEqual(t, tc["sherlock"].Custom["exec_path"], "/opt/sherlock", "registry exec path")
	testutil.AssertEqual(t, tc["naminter"].Custom["max_tasks"], 50, "registry max tasks")
	testutil.AssertFalse(t, tc["naminter"].Enabled, "registry enabled flag")
}

func TestLoad_Help(t *testing.T) {
	_, err := Load([]string{"--env-file=", "--help"})
	testutil.AssertTrue(t, errors.Is(err, pflag.ErrHelp), "help requested")
}

func TestLoad_BadFile(t *testing.T) {
	file := writeFile(t, "bad.yaml", "server: [unclosed")
	_, err := Load([]string{"--env-file=", "--config", file})
	testutil.AssertTrue(t, perrors.IsInvalidInput(err), "parse error")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"zero max targets", func(c *Config) { c.Leads.MaxTargets = 0 }},
		{"negative delay", func(c *Config) { c.Leads.Delay = -time.Second }},
		{"zero op timeout", func(c *Config) { c.Leads.OperationTimeout = 0 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"negative tool timeout", func(c *Config) {
			c.Tools["sherlock"] = Tool{Enabled: true, Timeout: -1}
		}},
		{"sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			testutil.AssertTrue(t, perrors.IsInvalidInput(cfg.Validate()), "invalid input")
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = " INFO "
	cfg.ObjectStore.Host = "https://ewr1.vultrobjects.com/"
	cfg.Tools["custom"] = Tool{Enabled: true}

	normalize(&cfg)

	testutil.AssertEqual(t, cfg.Log.Level, "info", "level")
	testutil.AssertEqual(t, cfg.ObjectStore.Host, "ewr1.vultrobjects.com", "host")
	testutil.AssertEqual(t, cfg.Tools["custom"].ExecPath, "custom", "exec path defaults to name")
}

func TestToJSON_HidesSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ObjectStore.SecretKey = "s3cr3t"
	cfg.Search.APIKey = "k3y"

	out, err := cfg.ToJSON()
	testutil.AssertNoError(t, err, "json")
	testutil.AssertFalse(t, strings.Contains(out, "s3cr3t"), "secret key hidden")
	testutil.AssertFalse(t, strings.Contains(out, "k3y"), "api key hidden")
}
