//go:build e2e

package e2e

import (
	"os"
	"os/exec"
	"runtime"
	"testing"
)

func TestMain(m *testing.M) {
	code := m.Run()

	// Safety net for panics where a deferred browser Close never ran.
	cleanupOrphanedBrowsers()

	os.Exit(code)
}

// cleanupOrphanedBrowsers kills Chrome processes left behind by failed
// tests. Best effort: errors mean nothing matched.
func cleanupOrphanedBrowsers() {
	switch runtime.GOOS {
	case "darwin", "linux":
		_ = exec.Command("pkill", "-f", "chromium|chrome").Run()
	case "windows":
		_ = exec.Command("taskkill", "/F", "/IM", "chrome.exe").Run()
		_ = exec.Command("taskkill", "/F", "/IM", "chromium.exe").Run()
	}
}
