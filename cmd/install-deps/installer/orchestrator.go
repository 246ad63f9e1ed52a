package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"sleuth/internal/platform/registry"
)

// Orchestrator checks and installs every configured tool in order.
type Orchestrator struct {
	config   Config
	system   SystemInfo
	run      Runner
	lookPath func(string) (string, error)
	progress ProgressCallback
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces command execution.
func WithRunner(run Runner) Option { return func(o *Orchestrator) { o.run = run } }

// WithLookPath replaces PATH lookup.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(o *Orchestrator) { o.lookPath = fn }
}

// NewOrchestrator creates an orchestrator for config.
func NewOrchestrator(config Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		config:   config,
		run:      ExecRunner,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadConfig reads deps.yaml. A missing file falls back to the tools
// registered in reg.
func LoadConfig(path string, reg *registry.ToolRegistry) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ConfigFromRegistry(reg), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for i, t := range cfg.Tools {
		if t.Name == "" || t.Package == "" {
			return Config{}, fmt.Errorf("tool #%d: name and package are required", i+1)
		}
		if t.HealthCheck.Command == "" {
			cfg.Tools[i].HealthCheck.Command = t.Name
		}
		if len(t.HealthCheck.Args) == 0 {
			cfg.Tools[i].HealthCheck.Args = []string{"--version"}
		}
	}
	return cfg, nil
}

// ConfigFromRegistry derives tools from registry metadata whose Install
// hint is a pipx command.
func ConfigFromRegistry(reg *registry.ToolRegistry) Config {
	var cfg Config
	cfg.Python.MinVersion = "3.9"
	for _, name := range reg.List() {
		meta, _ := reg.GetMetadata(name)
		pkg, ok := strings.CutPrefix(meta.Install, "pipx install ")
		if !ok {
			continue
		}
		cfg.Tools = append(cfg.Tools, Tool{
			Name:        string(name),
			Description: meta.Description,
			Package:     strings.TrimSpace(pkg),
			Required:    true,
			HealthCheck: HealthCheck{Command: string(name), Args: []string{"--version"}},
		})
	}
	return cfg
}

// SetProgressCallback sets the progress callback.
func (o *Orchestrator) SetProgressCallback(cb ProgressCallback) { o.progress = cb }

// System returns what Initialize detected.
func (o *Orchestrator) System() SystemInfo { return o.system }

// Initialize detects the Python toolchain and enforces the minimum version.
func (o *Orchestrator) Initialize(ctx context.Context) error {
	sys, err := DetectSystem(ctx, o.run, o.lookPath)
	if err != nil {
		return err
	}
	o.system = sys

	if minVersion := o.config.Python.MinVersion; minVersion != "" && CompareVersions(sys.PythonVersion, minVersion) < 0 {
		return fmt.Errorf("python %s is older than required %s", sys.PythonVersion, minVersion)
	}
	return nil
}

// Check reports whether each tool is installed.
func (o *Orchestrator) Check(ctx context.Context) []Result {
	results := make([]Result, 0, len(o.config.Tools))
	for _, tool := range o.config.Tools {
		results = append(results, o.check(ctx, tool))
	}
	return results
}

func (o *Orchestrator) check(ctx context.Context, tool Tool) Result {
	o.report(tool.Name, PhaseChecking, "looking up "+tool.HealthCheck.Command)
	if _, err := o.lookPath(tool.HealthCheck.Command); err != nil {
		return Result{Tool: tool, Status: StatusMissing}
	}
	version, err := o.validate(ctx, tool)
	if err != nil {
		return Result{Tool: tool, Status: StatusFailed, Error: err}
	}
	return Result{Tool: tool, Status: StatusAlreadyInstalled, Version: version}
}

// Install installs missing tools, or every tool when force is set.
// Optional tools that fail are reported but do not fail the run.
func (o *Orchestrator) Install(ctx context.Context, force bool) []Result {
	results := make([]Result, 0, len(o.config.Tools))
	for _, tool := range o.config.Tools {
		if err := ctx.Err(); err != nil {
			results = append(results, Result{Tool: tool, Status: StatusSkipped, Error: err})
			continue
		}

		start := time.Now()
		if !force {
			if r := o.check(ctx, tool); r.Status == StatusAlreadyInstalled {
				o.report(tool.Name, PhaseDone, "already installed")
				results = append(results, r)
				continue
			}
		}

		r := o.install(ctx, tool, force)
		r.Duration = time.Since(start)
		o.report(tool.Name, PhaseDone, string(r.Status))
		results = append(results, r)
	}
	return results
}

func (o *Orchestrator) install(ctx context.Context, tool Tool, force bool) Result {
	name, args := o.installCommand(tool.Package, force)
	o.report(tool.Name, PhaseInstalling, name+" "+strings.Join(args, " "))

	if out, err := o.run(ctx, name, args...); err != nil {
		return Result{Tool: tool, Status: StatusFailed, Error: fmt.Errorf("%s failed: %w: %s", name, err, lastLine(out))}
	}

	o.report(tool.Name, PhaseValidating, "running health check")
	version, err := o.validate(ctx, tool)
	if err != nil {
		return Result{Tool: tool, Status: StatusFailed, Error: err}
	}
	return Result{Tool: tool, Status: StatusSuccess, Version: version}
}

// installCommand prefers pipx and falls back to a user-level pip install.
func (o *Orchestrator) installCommand(pkg string, force bool) (string, []string) {
	if o.system.HasPipx {
		args := []string{"install"}
		if force {
			args = append(args, "--force")
		}
		return "pipx", append(args, pkg)
	}
	args := []string{"-m", "pip", "install", "--user"}
	if force {
		args = append(args, "--force-reinstall")
	}
	return "python3", append(args, pkg)
}

func (o *Orchestrator) validate(ctx context.Context, tool Tool) (string, error) {
	hc := tool.HealthCheck
	out, err := o.run(ctx, hc.Command, hc.Args...)
	if err != nil {
		return "", fmt.Errorf("health check failed: %w", err)
	}
	if hc.ExpectedContains != "" && !strings.Contains(strings.ToLower(string(out)), strings.ToLower(hc.ExpectedContains)) {
		return "", fmt.Errorf("health check output does not contain %q", hc.ExpectedContains)
	}
	return ExtractVersion(string(out)), nil
}

func (o *Orchestrator) report(tool string, phase Phase, msg string) {
	if o.progress != nil {
		o.progress(tool, phase, msg)
	}
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return lines[len(lines)-1]
}

// Failed counts failures of required tools.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Status == StatusFailed && r.Tool.Required {
			n++
		}
	}
	return n
}
