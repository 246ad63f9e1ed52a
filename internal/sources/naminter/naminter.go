// Package naminter runs the naminter username enumerator.
//
// Hits are printed as "[+] [<Site>] <url>"; the brackets are removed from
// the site name. --max-tasks bounds naminter's own concurrency.
package naminter

import (
	"strconv"
	"time"

	"sleuth/internal/core/domain"
	"sleuth/internal/platform/logx"
	"sleuth/internal/sources/common"
)

const (
	defaultExecPath = "naminter"
	defaultMaxTasks = 200
	defaultTimeout  = 10 * time.Minute
)

// Decoder parses naminter output lines.
var Decoder = common.MarkerDecoder{
	Source:       domain.ToolNaminter,
	Marker:       common.FoundMarker,
	TrimLeading:  1,
	TrimTrailing: 1,
}

// ArgsWithMaxTasks returns an ArgsBuilder that caps naminter's parallel
// site checks at maxTasks.
func ArgsWithMaxTasks(maxTasks int) common.ArgsBuilder {
	if maxTasks <= 0 {
		maxTasks = defaultMaxTasks
	}
	return func(username string) []string {
		return []string{"--max-tasks", strconv.Itoa(maxTasks), "--username", username}
	}
}

// New creates a naminter source.
func New(logger logx.Logger, execPath string, maxTasks int, timeout, killGrace time.Duration) *common.CLISource {
	if execPath == "" {
		execPath = defaultExecPath
	}
	return common.NewCLISource(logger, common.CLIConfig{
		Tool:      domain.ToolNaminter,
		ExecPath:  execPath,
		Timeout:   timeout,
		KillGrace: killGrace,
		Args:      ArgsWithMaxTasks(maxTasks),
		Decoder:   Decoder,
	})
}
