// cmd/sleuthctl/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/ui"
)

var (
	// Set with -ldflags at build time
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = `sleuthctl - follow sleuth streams from the terminal

USAGE:
  sleuthctl [options] <command> [args]

COMMANDS:
  search <tool> <username>   Stream an enumeration tool run (tool: sherlock, naminter)
  leads <filename>           Stream the LinkedIn scrape of an uploaded image's matches
  tools                      List the tools the server offers

OPTIONS:
  -s, --server string    Server base URL (default "http://localhost:5000", env SLEUTH_SERVER)
  -o, --output string    pretty | text | json | quiet (default "pretty")
      --timeout dur      Give up after this long, 0 = never
  -v, --version          Print version information
  -h, --help             Show this help
`

type options struct {
	server  string
	output  string
	timeout time.Duration
	version bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts := options{server: os.Getenv("SLEUTH_SERVER")}
	if opts.server == "" {
		opts.server = "http://localhost:5000"
	}

	fs := pflag.NewFlagSet("sleuthctl", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	fs.StringVarP(&opts.server, "server", "s", opts.server, "server base URL")
	fs.StringVarP(&opts.output, "output", "o", string(ui.ModePretty), "output mode")
	fs.DurationVar(&opts.timeout, "timeout", 0, "overall timeout")
	fs.BoolVarP(&opts.version, "version", "v", false, "print version")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprint(stdout, usage)
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usage)
		return 2
	}
	if opts.version {
		fmt.Fprintf(stdout, "sleuthctl %s (commit %s, built %s)\n", version, commit, date)
		return 0
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	presenter := ui.New(ui.Mode(opts.output), ui.WithWriter(stdout))
	defer presenter.Close()

	c := newClient(opts.server, logx.NewWithWriter(stderr, logx.FormatText, logx.LevelWarn))

	var err error
	switch cmd := rest[0]; cmd {
	case "search":
		if len(rest) != 3 {
			fmt.Fprintln(stderr, "Usage: sleuthctl search <tool> <username>")
			return 2
		}
		err = c.search(ctx, presenter, rest[1], rest[2])
	case "leads":
		if len(rest) != 2 {
			fmt.Fprintln(stderr, "Usage: sleuthctl leads <filename>")
			return 2
		}
		err = c.leads(ctx, presenter, rest[1])
	case "tools":
		err = c.tools(ctx, presenter)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	if err != nil {
		presenter.Error(err.Error())
		return 1
	}
	return 0
}
