// Package installer checks and installs the Python enumeration tools
// the sleuth server launches.
package installer

import (
	"context"
	"time"
)

// Status is the outcome for one tool.
type Status string

const (
	StatusSuccess          Status = "success"
	StatusFailed           Status = "failed"
	StatusSkipped          Status = "skipped"
	StatusAlreadyInstalled Status = "already_installed"
	StatusMissing          Status = "missing"
)

// Phase is reported through ProgressCallback while installing.
type Phase string

const (
	PhaseChecking   Phase = "checking"
	PhaseInstalling Phase = "installing"
	PhaseValidating Phase = "validating"
	PhaseDone       Phase = "done"
)

// ProgressCallback receives installation progress.
type ProgressCallback func(tool string, phase Phase, message string)

// SystemInfo describes the Python toolchain found on the host.
type SystemInfo struct {
	OS            string
	Arch          string
	PythonVersion string
	HasPipx       bool
}

// Result is the check or install outcome for one tool.
type Result struct {
	Tool     Tool
	Status   Status
	Version  string
	Error    error
	Duration time.Duration
}

// Config is the parsed deps.yaml.
type Config struct {
	Python struct {
		MinVersion string `yaml:"min_version"`
	} `yaml:"python"`
	Tools []Tool `yaml:"tools"`
}

// Tool is one installable enumeration tool.
type Tool struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Package     string      `yaml:"package"`
	Required    bool        `yaml:"required"`
	HealthCheck HealthCheck `yaml:"health_check"`
}

// HealthCheck runs Command with Args and expects the output to contain
// ExpectedContains, when set.
type HealthCheck struct {
	Command          string   `yaml:"command"`
	Args             []string `yaml:"args"`
	ExpectedContains string   `yaml:"expected_contains"`
}

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)
