package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/username/goviet-ime/internal/engine"
	"github.com/username/goviet-ime/internal/lexicon"
	"github.com/username/goviet-ime/internal/lifecycle"
	"github.com/username/goviet-ime/internal/macrostore"
	"github.com/username/goviet-ime/internal/settingswatch"
	"github.com/username/goviet-ime/internal/telemetry"
)

const (
	serviceName = "com.github.goviet.ime"
	objectPath  = "/Engine"

	sessionObjectPath = "/Session"
	lifecycleIface    = "com.github.username.govietime.Lifecycle"
)

// InputEngine is the D-Bus object that receives key events from Fcitx5.
type InputEngine struct {
	engine *engine.CompositionEngine
	logger *log.Logger
}

// NewInputEngine creates a new InputEngine with default settings.
func NewInputEngine(logger *log.Logger) *InputEngine {
	return &InputEngine{
		engine: engine.NewCompositionEngine(),
		logger: logger,
	}
}

// ProcessKey handles key events from Fcitx5 frontend.
// Input: keysym (X11 keycode), modifiers (Shift/Ctrl/Alt state)
// Output: handled (was key consumed), commitText (text to commit), preeditText (composition)
func (e *InputEngine) ProcessKey(keysym uint32, modifiers uint32) (bool, string, string, *dbus.Error) {
	event := engine.KeyEvent{
		KeySym:    keysym,
		Modifiers: modifiers,
	}

	result := e.engine.ProcessKey(event)

	// Log the key event and result
	if e.logger != nil {
		char := engine.KeysymToRune(keysym)
		keyStr := fmt.Sprintf("0x%x", keysym)
		if char != 0 {
			keyStr = fmt.Sprintf("%q", char)
		} else {
			// Handle special keys if they don't have a rune representation
			switch keysym {
			case engine.KeyBackspace:
				keyStr = "Backspace"
			case engine.KeySpace:
				keyStr = "Space"
			case engine.KeyReturn:
				keyStr = "Enter"
			case engine.KeyTab:
				keyStr = "Tab"
			case engine.KeyEscape:
				keyStr = "Esc"
			case engine.KeyDelete:
				keyStr = "Delete"
			case 0xff51:
				keyStr = "Left"
			case 0xff52:
				keyStr = "Up"
			case 0xff53:
				keyStr = "Right"
			case 0xff54:
				keyStr = "Down"
			case 0xff50:
				keyStr = "Home"
			case 0xff57:
				keyStr = "End"
			case 0xff55:
				keyStr = "PgUp"
			case 0xff56:
				keyStr = "PgDn"
			}
		}

		modsStr := ""
		if modifiers&engine.ModShift != 0 {
			modsStr += "Shift+"
		}
		if modifiers&engine.ModControl != 0 {
			modsStr += "Ctrl+"
		}
		if modifiers&engine.ModMod1 != 0 {
			modsStr += "Alt+"
		}

		e.logger.Printf("Type: %-15s | Preedit: %-15q | Commit: %-15q | Handled: %v",
			modsStr+keyStr, result.Preedit, result.CommitText, result.Handled)
	}

	return result.Handled, result.CommitText, result.Preedit, nil
}

// Reset clears the current composition state.
func (e *InputEngine) Reset() *dbus.Error {
	e.engine.Reset()
	fmt.Println(">>> [GoViet] Engine reset")
	return nil
}

// SetEnabled enables or disables the engine.
func (e *InputEngine) SetEnabled(enabled bool) *dbus.Error {
	e.engine.SetEnabled(enabled)
	fmt.Printf(">>> [GoViet] Engine enabled: %v\n", enabled)
	return nil
}

// GetPreedit returns the current preedit string.
func (e *InputEngine) GetPreedit() (string, *dbus.Error) {
	return e.engine.GetPreedit(), nil
}

// SessionService exports the richer C7 surface (SPEC_FULL.md §6) for
// D-Bus frontends to use in place of InputEngine's flat commit/preedit
// pair: every call returns a Diff instead. cmd/replay does not go
// through it; it drives engine.Session in-process.
type SessionService struct {
	session *engine.Session
	logger  *telemetry.Logger
	watcher *settingswatch.Watcher

	settingsMu      sync.Mutex
	pendingSettings engine.Settings
}

// diffToWire matches spec.md §6's wire format:
// { consume: bool, delete_count: u16, insert: [u32 code_point] }.
func diffToWire(d engine.Diff) (bool, uint16, []int32) {
	insert := make([]int32, len(d.Insert))
	for i, r := range d.Insert {
		insert[i] = int32(r)
	}
	return d.Consume, d.DeleteCount, insert
}

func (s *SessionService) ProcessKey(char int32) (bool, uint16, []int32, *dbus.Error) {
	consume, del, insert := diffToWire(s.session.ProcessKey(rune(char)))
	return consume, del, insert, nil
}

func (s *SessionService) ProcessBackspace() (bool, uint16, []int32, *dbus.Error) {
	consume, del, insert := diffToWire(s.session.ProcessBackspace())
	return consume, del, insert, nil
}

func (s *SessionService) ProcessWordBreak(breakChar int32) (bool, uint16, []int32, *dbus.Error) {
	consume, del, insert := diffToWire(s.session.ProcessWordBreak(rune(breakChar)))
	return consume, del, insert, nil
}

func (s *SessionService) UndoTyping() (bool, uint16, []int32, *dbus.Error) {
	consume, del, insert := diffToWire(s.session.UndoTyping())
	return consume, del, insert, nil
}

func (s *SessionService) CanUndoTyping() (bool, *dbus.Error) {
	return s.session.CanUndoTyping(), nil
}

func (s *SessionService) CurrentWord() (string, *dbus.Error) {
	return s.session.CurrentWord(), nil
}

func (s *SessionService) Reset(cursorMoved, preserveMidSentence bool) *dbus.Error {
	s.session.Reset(engine.ResetFlags{CursorMoved: cursorMoved, PreserveMidSentence: preserveMidSentence})
	return nil
}

func (s *SessionService) SetEnabled(enabled bool) *dbus.Error {
	s.session.SetEnabled(enabled)
	return nil
}

// UpdateSettings implements spec.md §6's update_settings, exposed as a
// wire-friendly D-Bus method (one primitive argument per Settings field).
// It records the new value and notifies the debounce watcher rather than
// calling Session.ApplySettings directly, so a burst of preference-page
// writes still reloads at most once per 500 ms (SPEC_FULL.md §5).
func (s *SessionService) UpdateSettings(
	inputMethod int32, codeTable int32, modernStyle bool,
	spellCheck bool, restoreIfWrongSpelling bool,
	quickTelex bool, quickConsonantStart bool, quickConsonantEnd bool,
	freeMark bool, allowConsonantZFWJ bool, upperCaseFirstChar bool,
	macrosEnabled bool, macrosInEnglishMode bool, autoCapsMacro bool,
	fixAutocomplete bool,
) *dbus.Error {
	settings := engine.Settings{
		InputMethod:            engine.InputMethodKind(inputMethod),
		CodeTable:              engine.CodeTable(codeTable),
		ModernStyle:            modernStyle,
		SpellCheck:             spellCheck,
		RestoreIfWrongSpelling: restoreIfWrongSpelling,
		QuickTelex:             quickTelex,
		QuickConsonantStart:    quickConsonantStart,
		QuickConsonantEnd:      quickConsonantEnd,
		FreeMark:               freeMark,
		AllowConsonantZFWJ:     allowConsonantZFWJ,
		UpperCaseFirstChar:     upperCaseFirstChar,
		MacrosEnabled:          macrosEnabled,
		MacrosInEnglishMode:    macrosInEnglishMode,
		AutoCapsMacro:          autoCapsMacro,
		FixAutocomplete:        fixAutocomplete,
	}

	s.settingsMu.Lock()
	s.pendingSettings = settings
	s.settingsMu.Unlock()

	if s.watcher != nil {
		s.watcher.Notify()
	}
	return nil
}

// loadPendingSettings is the settingswatch.Loader the debounce watcher
// calls once a notification burst settles.
func (s *SessionService) loadPendingSettings() engine.Settings {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()
	return s.pendingSettings
}

func main() {
	// 1. Connect to Session Bus
	conn, err := dbus.SessionBus()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to connect to session bus:", err)
		os.Exit(1)
	}
	defer conn.Close()

	// 2. Register Service Name
	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to request name:", err)
		os.Exit(1)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		fmt.Fprintln(os.Stderr, "Name already taken - another instance may be running")
		os.Exit(1)
	}

	// 3. Setup Logging
	logFile, err := os.OpenFile("typing.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	var logger *log.Logger
	if err == nil {
		logger = log.New(logFile, "", log.LstdFlags)
		fmt.Println(">>> [GoViet] Logging to typing.log")
	} else {
		fmt.Fprintf(os.Stderr, ">>> [GoViet] Failed to open log file: %v\n", err)
	}
	defer logFile.Close()

	// 4. Create and export the legacy Fcitx5-style engine
	inputEngine := NewInputEngine(logger)

	err = conn.Export(inputEngine, dbus.ObjectPath(objectPath), serviceName)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to export object:", err)
		os.Exit(1)
	}

	// 4b. Create and export the Session (C7) surface, backed by a
	// read-copy-update macro store and the process-wide lexicon.
	tlog, err := telemetry.Open("typing.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, ">>> [GoViet] Failed to open telemetry log: %v\n", err)
	}

	macros := macrostore.NewStore()
	settings := engine.DefaultSettings()
	session := engine.NewSession(settings, macros, lexicon.None{})
	sessionService := &SessionService{session: session, logger: tlog, pendingSettings: settings}

	if err := conn.Export(sessionService, dbus.ObjectPath(sessionObjectPath), serviceName); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to export session object:", err)
		os.Exit(1)
	}

	// 4c. Wire the Lifecycle Coordinator (C9) to the same bus: the host
	// shell extension emits signals on focus change, clicks, Tab, etc.
	coordinator := lifecycle.New(session, func() {
		fmt.Println(">>> [GoViet] Warming up lexicon/spellchecker")
	})
	matchRule := fmt.Sprintf("type='signal',interface='%s'", lifecycleIface)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, matchRule).Err; err != nil {
		fmt.Fprintf(os.Stderr, ">>> [GoViet] Failed to subscribe to lifecycle signals: %v\n", err)
	}
	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)
	go func() {
		for sig := range signals {
			lifecycle.DispatchFromDBus(coordinator, sig)
		}
	}()

	// 4d. Debounce settings reloads (spec.md §5): UpdateSettings records
	// the latest value and calls Notify; the watcher reloads at most once
	// per 500ms of notification bursts, reading back through
	// loadPendingSettings rather than a preferences-store file.
	watcher := settingswatch.New(session, sessionService.loadPendingSettings)
	sessionService.watcher = watcher
	defer watcher.Stop()

	// 4. Print startup banner
	fmt.Println("================================================")
	fmt.Println("âœ… GoViet-IME Backend is running!")
	fmt.Println("================================================")
	fmt.Printf("  Service:     %s\n", serviceName)
	fmt.Printf("  Object Path: %s\n", objectPath)
	fmt.Printf("  Input Method: Telex\n")
	fmt.Printf("  Output Format: Unicode\n")
	fmt.Println("------------------------------------------------")
	fmt.Println("Waiting for key events...")
	fmt.Println()

	// 5. Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	fmt.Println("\n>>> [GoViet] Shutting down...")
}
