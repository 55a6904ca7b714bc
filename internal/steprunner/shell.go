package steprunner

import (
	"fmt"
	"os/exec"
	"runtime"
)

// hostShell returns the host's standard shell invocation, mirroring
// the platform-detection order a CLI plugin would use: cmd on Windows,
// otherwise bash, falling back to sh.
func hostShell() (string, []string, error) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}, nil
	}
	if path, err := exec.LookPath("bash"); err == nil {
		return path, []string{"-c"}, nil
	}
	if path, err := exec.LookPath("sh"); err == nil {
		return path, []string{"-c"}, nil
	}
	return "", nil, fmt.Errorf("no suitable shell found")
}
