package engine

// CompositionEngine is the legacy per-key Engine implementation kept for
// the D-Bus daemon's existing Fcitx5-style ProcessKey/GetPreedit surface
// (cmd/daemon). Internally it now delegates all structural parsing to a
// WordBuffer (C2) instead of keeping its own onset/nucleus/coda logic, so
// schemes beyond Telex (VNI, VIQR, Simple-Telex) work through this surface
// too. New code should prefer Session (C7), which exposes Diff-based
// output instead of a flat committed/preedit string pair.
type CompositionEngine struct {
	inputMethod  InputMethod
	outputFormat OutputFormat
	codeTable    CodeTable
	buffer       *WordBuffer
	modern       bool
	enabled      bool
}

// NewCompositionEngine creates a new composition engine with default settings.
func NewCompositionEngine() *CompositionEngine {
	method := NewTelexMethod()
	return &CompositionEngine{
		inputMethod:  method,
		outputFormat: NewUnicodeFormat(),
		codeTable:    CodeTableUnicode,
		buffer:       NewWordBuffer(method, false),
		enabled:      true,
	}
}

// SetInputMethod sets the typing method (e.g., Telex, VNI).
func (e *CompositionEngine) SetInputMethod(method InputMethod) {
	e.inputMethod = method
	raw := e.buffer.raw
	e.buffer = NewWordBuffer(method, e.modern)
	e.buffer.SetRaw(raw)
}

// SetOutputFormat sets the output encoding format.
func (e *CompositionEngine) SetOutputFormat(format OutputFormat) {
	e.outputFormat = format
}

// SetCodeTable sets the output glyph encoding.
func (e *CompositionEngine) SetCodeTable(table CodeTable) {
	e.codeTable = table
}

// SetModernStyle selects the modern (true) or traditional (false) tone
// placement convention for two-vowel open nuclei.
func (e *CompositionEngine) SetModernStyle(modern bool) {
	e.modern = modern
	e.buffer.modern = modern
}

// SetEnabled enables or disables the engine.
func (e *CompositionEngine) SetEnabled(enabled bool) {
	e.enabled = enabled
	if !enabled {
		e.Reset()
	}
}

// IsEnabled returns whether the engine is enabled.
func (e *CompositionEngine) IsEnabled() bool {
	return e.enabled
}

// Reset clears the current composition state.
func (e *CompositionEngine) Reset() {
	e.buffer.Clear()
}

// GetPreedit returns the current preedit string.
func (e *CompositionEngine) GetPreedit() string {
	if e.buffer.IsEmpty() {
		return ""
	}
	projected := e.buffer.Project(e.outputFormat, e.codeTable)
	if len(projected) == 0 {
		return e.buffer.RawKeys()
	}
	return string(projected)
}

// ProcessKey handles a key event and returns the result.
func (e *CompositionEngine) ProcessKey(event KeyEvent) ProcessResult {
	result := ProcessResult{}

	if !e.enabled {
		return result
	}

	if specialResult, handled := e.handleSpecialKey(event); handled {
		return specialResult
	}

	if event.Modifiers&(ModControl|ModMod1) != 0 {
		if !e.buffer.IsEmpty() {
			preedit := e.GetPreedit()
			e.Reset()
			result.CommitText = preedit
			return result
		}
		return result
	}

	char := KeysymToRune(event.KeySym)
	if char == 0 {
		return result
	}

	e.buffer.Append(char)
	return ProcessResult{Handled: true, Preedit: e.GetPreedit()}
}

// handleSpecialKey handles special keys like Backspace, Space, Enter.
func (e *CompositionEngine) handleSpecialKey(event KeyEvent) (ProcessResult, bool) {
	result := ProcessResult{}

	switch event.KeySym {
	case KeyBackspace:
		return e.handleBackspace(), true

	case KeySpace:
		preedit := e.GetPreedit()
		e.Reset()
		result.Handled = true
		result.CommitText = preedit + " "
		return result, true

	case KeyReturn:
		preedit := e.GetPreedit()
		if preedit != "" {
			e.Reset()
			result.Handled = true
			result.CommitText = preedit
			return result, true
		}
		return result, false

	case KeyEscape:
		e.Reset()
		result.Handled = true
		return result, true

	case KeyTab:
		if !e.buffer.IsEmpty() {
			preedit := e.GetPreedit()
			e.Reset()
			result.Handled = true
			result.CommitText = preedit
			return result, true
		}
		return result, false

	case KeyDelete:
		if !e.buffer.IsEmpty() {
			preedit := e.GetPreedit()
			e.Reset()
			result.CommitText = preedit
			return result, true
		}
		return result, false
	}

	return result, false
}

// handleBackspace handles the backspace key.
func (e *CompositionEngine) handleBackspace() ProcessResult {
	if e.buffer.IsEmpty() {
		return ProcessResult{Handled: false}
	}
	e.buffer.Backspace()
	return ProcessResult{Handled: true, Preedit: e.GetPreedit()}
}

// KeysymToRune converts an X11 keysym to a rune.
func KeysymToRune(keysym uint32) rune {
	// ASCII printable characters (0x20 - 0x7E)
	if keysym >= 0x0020 && keysym <= 0x007e {
		return rune(keysym)
	}

	// Latin-1 supplement (0xA0 - 0xFF)
	if keysym >= 0x00a0 && keysym <= 0x00ff {
		return rune(keysym)
	}

	// Unicode keysyms (0x01000000 + unicode codepoint)
	if keysym >= 0x01000000 {
		return rune(keysym - 0x01000000)
	}

	return 0
}
