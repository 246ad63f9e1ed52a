// Package common holds the subprocess machinery shared by the enumeration
// tool sources.
package common

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

// DefaultKillGrace is how long a child gets to exit after SIGINT.
const DefaultKillGrace = 5 * time.Second

// ArgsBuilder renders the command line for one username.
type ArgsBuilder func(username string) []string

// CLIConfig configures a CLISource.
type CLIConfig struct {
	Tool      domain.ToolName
	ExecPath  string        // binary name or path, resolved with exec.LookPath
	Timeout   time.Duration // hard cap on a single run, 0 disables it
	KillGrace time.Duration // SIGINT to SIGKILL delay
	Args      ArgsBuilder
	Decoder   LineDecoder
}

// CLISource launches one enumeration tool per request.
type CLISource struct {
	logger logx.Logger
	cfg    CLIConfig
}

// NewCLISource creates a source for cfg.Tool.
func NewCLISource(logger logx.Logger, cfg CLIConfig) *CLISource {
	if cfg.ExecPath == "" {
		cfg.ExecPath = string(cfg.Tool)
	}
	if cfg.KillGrace <= 0 {
		cfg.KillGrace = DefaultKillGrace
	}
	return &CLISource{
		logger: logger.With("source", cfg.Tool.String()),
		cfg:    cfg,
	}
}

// Name returns the tool this source runs.
func (s *CLISource) Name() domain.ToolName { return s.cfg.Tool }

// ExecPath returns the configured binary.
func (s *CLISource) ExecPath() string { return s.cfg.ExecPath }

// Available reports whether the binary can be found.
func (s *CLISource) Available() bool {
	_, err := exec.LookPath(s.cfg.ExecPath)
	return err == nil
}

// Open implements ports.StreamLauncher.
func (s *CLISource) Open(ctx context.Context, username string) (ports.EventSource, error) {
	ps, err := s.Start(ctx, username)
	if err != nil {
		return nil, err
	}
	return ps, nil
}

// Start resolves and launches the tool. A missing binary or a failed start
// is reported as errors.ErrToolUnavailable before any output is read. The
// child is bound to ctx: when ctx ends it receives SIGINT and, after the
// kill grace, SIGKILL.
func (s *CLISource) Start(ctx context.Context, username string) (*ProcessStream, error) {
	execPath, err := exec.LookPath(s.cfg.ExecPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrToolUnavailable, "%s not found in PATH (%v)", s.cfg.Tool, err)
	}

	args := s.cfg.Args(username)

	var (
		procCtx context.Context
		cancel  context.CancelFunc
	)
	if s.cfg.Timeout > 0 {
		procCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
	} else {
		procCtx, cancel = context.WithCancel(ctx)
	}

	cmd := exec.CommandContext(procCtx, execPath, args...)
	cmd.Stderr = nil // null device
	cmd.WaitDelay = s.cfg.KillGrace
	configureProcess(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, errors.Wrap(err, "failed to create stdout pipe")
	}

	s.logger.Info("executing CLI command",
		"exec_path", execPath,
		"args", args,
		"timeout", s.cfg.Timeout.String(),
	)

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, errors.Wrapf(errors.ErrToolUnavailable, "failed to start %s (%v)", s.cfg.Tool, err)
	}

	s.logger.Debug("subprocess started", "pid", cmd.Process.Pid)

	return &ProcessStream{
		logger:  s.logger.With("pid", cmd.Process.Pid),
		decoder: s.cfg.Decoder,
		cmd:     cmd,
		stdout:  stdout,
		cancel:  cancel,
		procCtx: procCtx,
		started: time.Now(),
	}, nil
}

// ProcessStream owns one running child. It is consumed by a single Run and
// must be closed; Close kills the child if needed and always reaps it.
type ProcessStream struct {
	logger  logx.Logger
	decoder LineDecoder
	cmd     *exec.Cmd
	stdout  io.ReadCloser
	cancel  context.CancelFunc
	procCtx context.Context
	started time.Time

	found    atomic.Int64
	reapOnce sync.Once
	waitErr  error
}

// PID returns the child's process id.
func (p *ProcessStream) PID() int { return p.cmd.Process.Pid }

// Run reads stdout line by line and emits a FoundEvent per match. After
// EOF the child is reaped and exactly one CompletionEvent is emitted, even
// when the child crashed. If ctx ends or emit fails the child is stopped
// and no completion is emitted.
func (p *ProcessStream) Run(ctx context.Context, emit ports.Emit) error {
	stop := context.AfterFunc(ctx, p.cancel)
	defer stop()
	// Reaping runs Wait, which kills the child after the grace and closes
	// stdout, so a helper still holding the pipe cannot block the scanner.
	stopReap := context.AfterFunc(p.procCtx, p.reap)
	defer stopReap()

	scanner := bufio.NewScanner(p.stdout)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max token size

	for scanner.Scan() {
		ev, ok := p.decoder.Decode(scanner.Text())
		if !ok {
			continue
		}
		if err := emit(ev); err != nil {
			p.cancel()
			p.reap()
			return err
		}
		p.found.Add(1)
	}

	if err := scanner.Err(); err != nil {
		if p.procCtx.Err() == nil {
			p.logger.Warn("scanner error", "error", err.Error())
		}
		// stop the child so it cannot block on a full pipe
		p.cancel()
	}

	p.reap()

	if err := ctx.Err(); err != nil {
		return err
	}
	return emit(domain.Completion())
}

// Close stops the child if it is still running and reaps it. Safe to call
// multiple times.
func (p *ProcessStream) Close() error {
	p.cancel()
	p.reap()
	return nil
}

// ExitErr returns the error from waiting on the child, nil for exit 0.
// Only meaningful after Run or Close returned.
func (p *ProcessStream) ExitErr() error { return p.waitErr }

func (p *ProcessStream) reap() {
	p.reapOnce.Do(func() {
		ctxErr := p.procCtx.Err()
		p.waitErr = p.cmd.Wait()
		stopped := p.procCtx.Err() != nil
		p.cancel()
		if stopped {
			killGroup(p.cmd)
		}

		duration := time.Since(p.started).Round(time.Millisecond)
		if p.waitErr == nil {
			p.logger.Info("CLI command completed", "found", p.found.Load(), "duration", duration.String())
			return
		}

		if errors.Is(ctxErr, context.Canceled) {
			p.logger.Debug("subprocess stopped", "found", p.found.Load(), "duration", duration.String())
			return
		}

		kv := []any{"error", p.waitErr.Error(), "found", p.found.Load(), "duration", duration.String()}
		var exitErr *exec.ExitError
		if errors.As(p.waitErr, &exitErr) {
			kv = append(kv, "exit_code", exitErr.ExitCode())
		}
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			kv = append(kv, "timed_out", true)
		}
		p.logger.Warn("subprocess exited with error", kv...)
	})
}
