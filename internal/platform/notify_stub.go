//go:build !linux && !darwin && !windows

package platform

// Notify is a no-op on platforms without a notification transport.
func Notify(string, string, Options) error {
	return nil
}
