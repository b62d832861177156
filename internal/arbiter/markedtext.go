package arbiter

import "github.com/godbus/dbus/v5"

// dbusMarkedText drives a client's marked-text (preedit) composition API
// over the same session-bus connection cmd/daemon already exports the
// engine methods on, the way the teacher's daemon exports InputEngine
// (cmd/daemon/main.go). The client listens for these signals and renders
// its own preedit underline; StrategyMarkedText is selected for clients
// that advertise input-context support for it.
type dbusMarkedText struct {
	conn       *dbus.Conn
	objectPath dbus.ObjectPath
	iface      string
}

// NewMarkedTextInjector wires an Injector that emits preedit signals on
// conn instead of synthesizing key events.
func NewMarkedTextInjector(conn *dbus.Conn, objectPath dbus.ObjectPath, iface string) Injector {
	return &dbusMarkedText{conn: conn, objectPath: objectPath, iface: iface}
}

func (m *dbusMarkedText) Backspace(int) error {
	// Marked-text clients own their own cursor; backspace is expressed
	// by the next SetMarkedText call carrying the shorter string.
	return nil
}

func (m *dbusMarkedText) Insert([]rune) error {
	return nil
}

func (m *dbusMarkedText) SetMarkedText(text string, cursor int) error {
	return m.conn.Emit(m.objectPath, m.iface+".PreeditChanged", text, int32(cursor))
}

func (m *dbusMarkedText) CommitMarkedText() error {
	return m.conn.Emit(m.objectPath, m.iface+".PreeditCommit")
}

func (m *dbusMarkedText) CancelMarkedText() error {
	return m.conn.Emit(m.objectPath, m.iface+".PreeditCancel")
}
