package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SherlockOutput mimics sherlock's stdout, noise lines included.
var SherlockOutput = []string{
	"[*] Checking username octocat on:",
	"",
	"[+] GitHub: https://github.com/octocat",
	"[-] Instagram: Not Found!",
	"[+] Reddit: https://www.reddit.com/user/octocat",
	"[*] Search completed with 2 results",
}

// NaminterOutput mimics naminter's stdout.
var NaminterOutput = []string{
	"naminter v1.0 loaded 600 sites",
	"[+] [GitHub] https://github.com/octocat",
	"[?] [Keybase] https://keybase.io/octocat",
	"[+] [Twitter] https://twitter.com/octocat",
}

// WriteScript writes an executable shell script named name into a temp dir
// and returns its path. The body is placed after a POSIX sh shebang.
func WriteScript(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("write script %s: %v", name, err)
	}
	return path
}

// EchoScript returns a script body that prints each line and exits with code.
func EchoScript(lines []string, code int) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "printf '%%s\\n' '%s'\n", strings.ReplaceAll(l, "'", `'\''`))
	}
	fmt.Fprintf(&b, "exit %d", code)
	return b.String()
}
