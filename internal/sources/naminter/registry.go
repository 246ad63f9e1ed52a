package naminter

import (
	"sleuth/internal/core/domain"
	"sleuth/internal/core/ports"
	"sleuth/internal/platform/logx"
	"sleuth/internal/platform/registry"
)

func init() {
	if err := registry.Global().Register(
		domain.ToolNaminter,
		factory,
		ports.ToolMetadata{
			Description: "Asynchronous username enumeration across hundreds of sites",
			Homepage:    "https://github.com/3xp0rt/naminter",
			Install:     "pipx install naminter",
			OutputForm:  "[+] [<Site>] <url>",
		},
	); err != nil {
		logx.New().Warn("failed to register naminter tool", "error", err.Error())
	}
}

func factory(cfg ports.ToolConfig, logger logx.Logger) (ports.StreamLauncher, error) {
	execPath := registry.GetStringConfig(cfg.Custom, "exec_path", defaultExecPath)
	maxTasks := registry.GetIntConfig(cfg.Custom, "max_tasks", defaultMaxTasks)
	if err := registry.ValidatePositiveInt("max_tasks", maxTasks); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return New(logger, execPath, maxTasks, timeout, cfg.KillGrace), nil
}
