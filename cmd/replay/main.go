// Command replay is an interactive terminal harness for exercising the
// Session Controller (C7) and the Synthesize strategy live: it renders
// the current word's preedit the way a MarkedText client would, so a
// keystroke sequence like "t h u o w n g" can be watched turning into
// "thương" character by character, without a full desktop IME stack.
package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/username/goviet-ime/internal/arbiter"
	"github.com/username/goviet-ime/internal/engine"
	"github.com/username/goviet-ime/internal/lexicon"
	"github.com/username/goviet-ime/internal/macrostore"
)

// terminalInjector applies a Diff directly to an in-memory line buffer,
// standing in for a real text field so the Arbiter's Synthesize strategy
// runs against something concrete instead of sitting unexercised.
type terminalInjector struct {
	line []rune
}

func (t *terminalInjector) Backspace(n int) error {
	if n > len(t.line) {
		n = len(t.line)
	}
	t.line = t.line[:len(t.line)-n]
	return nil
}

func (t *terminalInjector) Insert(runes []rune) error {
	t.line = append(t.line, runes...)
	return nil
}

func (t *terminalInjector) SetMarkedText(text string, cursor int) error { return nil }
func (t *terminalInjector) CommitMarkedText() error                     { return nil }
func (t *terminalInjector) CancelMarkedText() error                     { return nil }

func preeditStyle() tcell.Style {
	c := colorful.Hsv(210, 0.65, 0.95)
	r, g, b := c.RGB255()
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))).
		Underline(true)
}

func committedStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.ColorWhite)
}

func draw(s tcell.Screen, committed []string, current string) {
	s.Clear()
	x, y := 0, 1

	s.SetContent(0, 0, ' ', nil, tcell.StyleDefault)
	header := "goviet-ime replay — type, space to commit, Esc to quit"
	for i, r := range header {
		s.SetContent(i, 0, r, nil, tcell.StyleDefault.Bold(true))
	}

	cs := committedStyle()
	for _, word := range committed {
		for _, r := range word {
			s.SetContent(x, y, r, nil, cs)
			x += runewidth.RuneWidth(r)
		}
		s.SetContent(x, y, ' ', nil, cs)
		x++
	}

	ps := preeditStyle()
	for _, r := range current {
		s.SetContent(x, y, r, nil, ps)
		x += runewidth.RuneWidth(r)
	}
	s.ShowCursor(x, y)
	s.Show()
}

func main() {
	method := engine.MethodTelex
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "vni":
			method = engine.MethodVNI
		case "viqr":
			method = engine.MethodVIQR
		}
	}

	settings := engine.DefaultSettings()
	settings.InputMethod = method
	session := engine.NewSession(settings, macrostore.NewStore(), lexicon.None{})

	injector := &terminalInjector{}
	arb := arbiter.New(injector, arbiter.NewClientState(arbiter.StrategySynthesize))
	apply := func(diff engine.Diff) {
		opts := arbiter.ApplyOptions{CurrentWord: session.CurrentWord(), MidSentence: session.MidSentence()}
		if err := arb.Apply(diff, opts); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := s.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer s.Fini()

	var committed []string
	draw(s, committed, session.CurrentWord())

	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				apply(session.ProcessBackspace())
			case tcell.KeyEnter, tcell.KeyTab:
				word := session.CurrentWord()
				apply(session.ProcessWordBreak(' '))
				if word != "" {
					committed = append(committed, word)
				}
			case tcell.KeyRune:
				r := ev.Rune()
				if r == ' ' {
					word := session.CurrentWord()
					apply(session.ProcessWordBreak(' '))
					if word != "" {
						committed = append(committed, word)
					}
				} else {
					apply(session.ProcessKey(r))
				}
			}
		case *tcell.EventResize:
			s.Sync()
		}
		draw(s, committed, session.CurrentWord())
	}
}
