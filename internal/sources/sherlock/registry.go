package sherlock

import (
	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/registry"
)

func init() {
	if err := registry.Global().Register(
		domain.ToolSherlock,
		factory,
		ports.ToolMetadata{
			Description: "Hunt down social media accounts by username across social networks",
			Homepage:    "https://github.com/sherlock-project/sherlock",
			Install:     "pipx install sherlock-project",
			OutputForm:  "[+] <Site>: <url>",
		},
	); err != nil {
		logx.New().Warn("failed to register sherlock tool", "error", err.Error())
	}
}

func factory(cfg ports.ToolConfig, logger logx.Logger) (ports.StreamLauncher, error) {
	execPath := registry.GetStringConfig(cfg.Custom, "exec_path", defaultExecPath)

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return New(logger, execPath, timeout, cfg.KillGrace), nil
}
