package installer

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// DetectSystem looks for python3 and pipx.
func DetectSystem(ctx context.Context, run Runner, lookPath func(string) (string, error)) (SystemInfo, error) {
	info := SystemInfo{OS: runtime.GOOS, Arch: runtime.GOARCH}

	if _, err := lookPath("pipx"); err == nil {
		info.HasPipx = true
	}

	out, err := run(ctx, "python3", "--version")
	if err != nil {
		return info, fmt.Errorf("python3 not found in PATH: %w", err)
	}
	// "Python 3.12.3"
	info.PythonVersion = ExtractVersion(string(out))
	return info, nil
}

// CompareVersions compares dotted numeric versions.
// Returns -1 if v1 < v2, 0 if equal, 1 if v1 > v2.
func CompareVersions(v1, v2 string) int {
	parts1 := strings.Split(cleanVersion(v1), ".")
	parts2 := strings.Split(cleanVersion(v2), ".")

	n := max(len(parts1), len(parts2))
	for i := 0; i < n; i++ {
		var p1, p2 int
		if i < len(parts1) {
			fmt.Sscanf(parts1[i], "%d", &p1)
		}
		if i < len(parts2) {
			fmt.Sscanf(parts2[i], "%d", &p2)
		}
		switch {
		case p1 < p2:
			return -1
		case p1 > p2:
			return 1
		}
	}
	return 0
}

func cleanVersion(version string) string {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(version, "v")
	version = strings.TrimPrefix(version, "V")
	return version
}

// ExtractVersion returns the first dotted number in output, or the
// trimmed output when there is none.
func ExtractVersion(output string) string {
	for _, field := range strings.Fields(output) {
		clean := strings.Trim(cleanVersion(field), ",()")
		if isValidVersion(clean) {
			return clean
		}
	}
	return strings.TrimSpace(output)
}

func isValidVersion(v string) bool {
	parts := strings.Split(v, ".")
	if len(parts) < 2 {
		return false
	}
	for _, part := range parts {
		var num int
		if _, err := fmt.Sscanf(part, "%d", &num); err != nil {
			return false
		}
	}
	return true
}
