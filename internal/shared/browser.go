package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// openCommands maps GOOS to the launcher invocation for that platform; the
// URL is appended as the final argument.
var openCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser launches the default browser at url. The auth command uses it
// to hand the user off to the Spotify consent page.
func OpenBrowser(url string) error {
	argv, ok := openCommands[getRuntime()]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", getRuntime())
	}

	args := append([]string(nil), argv[1:]...)
	args = append(args, url)

	if err := exec.Command(argv[0], args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
