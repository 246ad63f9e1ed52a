package domain

import "strings"

// ToolName identifies an identity-enumeration CLI.
type ToolName string

const (
	ToolSherlock ToolName = "sherlock"
	ToolNaminter ToolName = "naminter"
)

// DefaultTool serves routes that do not name a tool.
const DefaultTool = ToolSherlock

// ParseToolName normalizes s and reports whether it names a known tool.
func ParseToolName(s string) (ToolName, bool) {
	t := ToolName(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// IsValid reports whether the tool is one sleuth knows how to decode.
func (t ToolName) IsValid() bool {
	switch t {
	case ToolSherlock, ToolNaminter:
		return true
	default:
		return false
	}
}

func (t ToolName) String() string { return string(t) }
