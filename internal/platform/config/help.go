package config

import (
	"fmt"
	"io"
	"runtime"
)

const helpText = `
sleuth - OSINT streaming server

USAGE:
  sleuth [options]

SERVER OPTIONS:
  -a, --addr string             Listen address (default ":5000")
      --max-connections int     Concurrent connection cap, 0 = unlimited (default 256)
      --shutdown-timeout dur    Graceful shutdown limit (default 15s)
      --allowed-origins list    CORS origins (default "*")
      --stream-rate float       New streams per second per client, 0 = off

STREAM OPTIONS:
      --stream-max-duration dur Hard limit for one stream (default 30m)
      --stream-keepalive dur    Idle keepalive interval, negative disables (default 15s)

TOOL OPTIONS (one block per tool: sherlock, naminter):
      --<tool>-enabled          Enable the tool (default true)
      --<tool>-path string      Executable name or path
      --<tool>-timeout dur      Limit for one run (default 10m)
      --naminter-max-tasks int  Naminter concurrency (default 200)

LEAD OPTIONS:
      --leads-max-targets int   Profiles scraped per lead stream (default 10)
      --leads-delay dur         Pause between profile scrapes (default 3s)
      --leads-timeout dur       Limit for one profile scrape (default 1m30s)
      --linkedin                Enable LinkedIn scraping (default true)
      --linkedin-session path   Playwright storageState file (default "linkedin_session.json")
      --linkedin-headless       Run Chrome headless (default true)

STORAGE OPTIONS:
      --db path                 SQLite database (default "sleuth.db")
      --results-dir path        Reverse search results (default "serp_results")

GENERAL:
  -c, --config path             YAML configuration file
      --env-file path           dotenv file (default ".env")
  -l, --log-level string        debug, info, warn, error (default "info")
      --log-format string       text or json (default "text")
      --telemetry               Export traces over OTLP/HTTP
      --telemetry-endpoint      Collector host:port (default "localhost:4318")
  -v, --version                 Print version information and exit
  -h, --help                    Show this help message

ENVIRONMENT VARIABLES:
  Most settings can be set with the SLEUTH_ prefix, for example:

  SLEUTH_SERVER_ADDR=:8080
  SLEUTH_LOG_LEVEL=debug
  SLEUTH_LEADS_DELAY=5s
  SLEUTH_TOOLS_NAMINTER_MAX_TASKS=100

  Object storage and search credentials:

  VULTR_HOST_NAME        S3-compatible endpoint host (e.g. ewr1.vultrobjects.com)
  VULTR_BUCKET_NAME      Bucket for uploaded images
  VULTR_S3_ACCESS_KEY    Access key
  VULTR_S3_SECRET_KEY    Secret key
  SERP_API_KEY           SerpApi key for reverse image search

  Precedence: defaults < config file < .env < environment < flags.
  Variables already present in the environment win over the .env file.
`

// PrintHelp writes the help text to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer, name, version, commit, date string) {
	fmt.Fprintf(w, "%s %s\n", name, version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", runtime.Version())
}
