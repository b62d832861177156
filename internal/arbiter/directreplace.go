package arbiter

import "github.com/godbus/dbus/v5"

// dbusDirectReplace supports the overlay-app exception spec.md §4.8
// describes: some clients (terminal overlays, some Electron apps) can't
// reliably accept marked text but also mis-render a tight backspace+insert
// sequence, so this strategy asks the client to replace its own tracked
// word atomically over D-Bus rather than racing synthetic key events.
type dbusDirectReplace struct {
	conn       *dbus.Conn
	objectPath dbus.ObjectPath
	iface      string
}

// NewDirectReplaceInjector wires an Injector that asks the client to
// perform the replacement itself, for clients flagged unreliable under
// both other strategies.
func NewDirectReplaceInjector(conn *dbus.Conn, objectPath dbus.ObjectPath, iface string) Injector {
	return &dbusDirectReplace{conn: conn, objectPath: objectPath, iface: iface}
}

func (d *dbusDirectReplace) Backspace(n int) error {
	return d.conn.Emit(d.objectPath, d.iface+".DirectDelete", int32(n))
}

func (d *dbusDirectReplace) Insert(runes []rune) error {
	return d.conn.Emit(d.objectPath, d.iface+".DirectInsert", string(runes))
}

// SetMarkedText, CommitMarkedText, CancelMarkedText are unused by this
// strategy: the overlay-app exception never uses marked text.
func (d *dbusDirectReplace) SetMarkedText(string, int) error { return nil }
func (d *dbusDirectReplace) CommitMarkedText() error         { return nil }
func (d *dbusDirectReplace) CancelMarkedText() error         { return nil }
