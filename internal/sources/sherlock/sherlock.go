// Package sherlock runs the sherlock username enumerator.
//
// Hits are printed as "[+] <Site>: <url>"; the trailing colon is removed
// from the site name.
package sherlock

import (
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/logx"
	"sleuth/internal/sources/common"
)

const (
	defaultExecPath = "sherlock"
	defaultTimeout  = 10 * time.Minute
)

// Decoder parses sherlock output lines.
var Decoder = common.MarkerDecoder{
	Source:       domain.ToolSherlock,
	Marker:       common.FoundMarker,
	TrimTrailing: 1,
}

// Args keeps sherlock from writing its per-user report file.
func Args(username string) []string {
	return []string{username, "--output", "/dev/null"}
}

// New creates a sherlock source.
func New(logger logx.Logger, execPath string, timeout, killGrace time.Duration) *common.CLISource {
	if execPath == "" {
		execPath = defaultExecPath
	}
	return common.NewCLISource(logger, common.CLIConfig{
		Tool:      domain.ToolSherlock,
		ExecPath:  execPath,
		Timeout:   timeout,
		KillGrace: killGrace,
		Args:      Args,
		Decoder:   Decoder,
	})
}
