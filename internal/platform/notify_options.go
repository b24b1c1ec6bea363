// Package platform sends desktop notifications through the host OS.
package platform

// Options configures how a notification is displayed.
type Options struct {
	// IconPath, when non-empty, points at an image file the notification
	// center should show alongside the text, where supported.
	IconPath string
}
