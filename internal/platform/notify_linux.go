//go:build linux

package platform

import (
	"github.com/godbus/dbus/v5"
)

const notifyTimeoutMs = 5000

// Notify sends a desktop notification over the freedesktop notification bus.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return err
	}
	defer conn.Close()

	obj := conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		"Snapmark", uint32(0), opts.IconPath, title, body,
		[]string{}, map[string]dbus.Variant{}, int32(notifyTimeoutMs))
	return call.Err
}
