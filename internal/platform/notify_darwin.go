//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify displays a notification via macOS Notification Center.
func Notify(title, body string, _ Options) error {
	script := fmt.Sprintf("display notification %q with title %q", body, title)
	return exec.Command("osascript", "-e", script).Run()
}
