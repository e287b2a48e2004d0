// Package tui is a terminal palette editor built on tcell.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/Faultbox/saturn-colors/internal/editor"
	"github.com/Faultbox/saturn-colors/pkg/colormath"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

// canvas is the part of tcell.Screen the editor draws on.
type canvas interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (int, int)
}

var (
	styleText     = tcell.StyleDefault
	styleDim      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleSelected = tcell.StyleDefault.Reverse(true)
	styleError    = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

const (
	swatchWidth = 8
	hexLen      = 6
)

// App holds the terminal editor state.
type App struct {
	session *editor.Session
	log     *zap.Logger

	slot   palette.Slot
	field  palette.Field
	mode   palette.RandomMode
	status string
	failed bool

	editing bool
	input   []rune

	luckyLeft     int
	luckyInterval time.Duration
}

// New creates an editor for session.
func New(session *editor.Session, mode palette.RandomMode, luckyInterval time.Duration, log *zap.Logger) *App {
	if mode == "" {
		mode = palette.RandomUniform
	}
	if luckyInterval <= 0 {
		luckyInterval = 50 * time.Millisecond
	}
	return &App{
		session:       session,
		log:           log,
		mode:          mode,
		luckyInterval: luckyInterval,
	}
}

// Run takes over screen until the user quits. The screen is finalized on return.
func (a *App) Run(screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	changed := make(chan struct{}, 1)
	unsubscribe := a.session.Subscribe(func(palette.Palette) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	ticker := time.NewTicker(a.luckyInterval)
	defer ticker.Stop()

	a.redraw(screen)
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !a.HandleKey(ev.Key(), ev.Rune()) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
			a.redraw(screen)

		case <-changed:
			a.redraw(screen)

		case <-ticker.C:
			if a.luckyLeft > 0 {
				a.session.Randomize()
				a.luckyLeft--
				if a.luckyLeft == 0 {
					a.setStatus("feeling lucky: done", false)
				}
			}
		}
	}
}

func (a *App) redraw(screen tcell.Screen) {
	screen.Clear()
	a.Draw(screen)
	screen.Show()
}

func (a *App) setStatus(msg string, failed bool) {
	a.status = msg
	a.failed = failed
	if failed {
		a.log.Warn("editor action failed", zap.String("status", msg))
	}
}

// HandleKey applies a key press and returns false when the editor should exit.
func (a *App) HandleKey(key tcell.Key, r rune) bool {
	if a.editing {
		a.handleEditKey(key, r)
		return true
	}

	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		a.moveSlot(-1)
	case tcell.KeyDown:
		a.moveSlot(1)
	case tcell.KeyLeft, tcell.KeyRight, tcell.KeyTab:
		a.toggleField()
	case tcell.KeyEnter:
		a.startEdit()
	case tcell.KeyRune:
		return a.handleRune(r)
	}
	return true
}

func (a *App) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'k':
		a.moveSlot(-1)
	case 'j':
		a.moveSlot(1)
	case 'h', 'l':
		a.toggleField()
	case '#':
		a.startEdit()
	case 'r':
		a.session.Randomize()
		a.setStatus("randomized", false)
	case 'L':
		a.luckyLeft = a.session.LuckyRounds()
		a.setStatus(fmt.Sprintf("feeling lucky (%d)", a.luckyLeft), false)
	case 'a':
		// Re-derive the shade from the selected primary.
		p := a.session.Snapshot()
		amb := colormath.DeriveAmbient(p.Color(a.slot, palette.Primary))
		_ = a.session.SetColor(a.slot, palette.Ambient, amb)
		a.setStatus("ambient derived", false)
	case 'e':
		if _, err := a.session.Export(); err != nil {
			a.setStatus("copy failed: "+err.Error(), true)
		} else {
			a.setStatus("code copied to clipboard", false)
		}
	case 'i':
		if err := a.session.ImportClipboard(); err != nil {
			a.setStatus(err.Error(), true)
		} else {
			a.setStatus("code imported", false)
		}
	case 'd':
		a.session.Reset()
		a.setStatus("stock colors", false)
	case 'w':
		if path, err := a.session.SaveFile(); err != nil {
			a.setStatus(err.Error(), true)
		} else {
			a.setStatus("saved "+path, false)
		}
	case 'm':
		if a.mode == palette.RandomHSV {
			a.mode = palette.RandomUniform
		} else {
			a.mode = palette.RandomHSV
		}
		a.session.SetRandomMode(a.mode)
		a.setStatus("random mode: "+string(a.mode), false)
	}
	return true
}

func (a *App) moveSlot(delta int) {
	n := palette.SlotCount
	a.slot = palette.Slot((int(a.slot) + delta + n) % n)
}

func (a *App) toggleField() {
	if a.field == palette.Primary {
		a.field = palette.Ambient
	} else {
		a.field = palette.Primary
	}
}

func (a *App) startEdit() {
	a.editing = true
	a.input = a.input[:0]
	a.setStatus("type 6 hex digits, Enter to apply, Esc to cancel", false)
}

func (a *App) handleEditKey(key tcell.Key, r rune) {
	switch key {
	case tcell.KeyEscape:
		a.editing = false
		a.setStatus("edit cancelled", false)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.input) > 0 {
			a.input = a.input[:len(a.input)-1]
		}
	case tcell.KeyEnter:
		a.editing = false
		if err := a.session.SetHex(a.slot, a.field, "#"+string(a.input)); err != nil {
			a.setStatus(err.Error(), true)
			return
		}
		a.setStatus(fmt.Sprintf("%s %s set", a.slot.Label(), a.field), false)
	case tcell.KeyRune:
		if len(a.input) < hexLen && strings.ContainsRune("0123456789abcdefABCDEF", r) {
			a.input = append(a.input, r)
		}
	}
}

// Draw renders the editor onto c.
func (a *App) Draw(c canvas) {
	p := a.session.Snapshot()

	drawText(c, 1, 0, styleTitle, "Saturn Color Editor")
	drawText(c, 1, 1, styleDim, fmt.Sprintf("random: %s", a.mode))

	for i, s := range palette.Slots() {
		y := 3 + i
		e := p[s]
		label := fmt.Sprintf("%-11s", s.Label())
		style := styleText
		if s == a.slot {
			style = styleSelected
		}
		drawText(c, 1, y, style, label)

		x := 13
		for _, f := range []palette.Field{palette.Primary, palette.Ambient} {
			col := e.Get(f)
			drawSwatch(c, x, y, col)
			text := col.Hex()
			ts := styleText
			if s == a.slot && f == a.field {
				ts = styleSelected
				if a.editing {
					text = "#" + string(a.input) + strings.Repeat("_", hexLen-len(a.input))
				}
			}
			drawText(c, x+swatchWidth+1, y, ts, text)
			x += swatchWidth + 10
		}
	}

	codeX := 52
	drawText(c, codeX, 0, styleTitle, "GameShark")
	for i, line := range strings.Split(a.session.CodeFor(p), "\n") {
		drawText(c, codeX, 1+i, styleDim, line)
	}

	for i, line := range helpLines {
		drawText(c, 1, 10+i, styleDim, line)
	}
	if a.status != "" {
		st := styleText
		if a.failed {
			st = styleError
		}
		drawText(c, 1, 14, st, truncate(a.status, codeX-2))
	}
}

var helpLines = []string{
	"↑↓ slot  ←→ field  Enter edit  a derive",
	"r random  L lucky  m mode  d defaults",
	"e export  i import  w save  q quit",
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func drawSwatch(c canvas, x, y int, col colormath.Color) {
	r, g, b := col.Channels()
	st := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	for i := 0; i < swatchWidth; i++ {
		c.SetContent(x+i, y, ' ', nil, st)
	}
}

func drawText(c canvas, x, y int, style tcell.Style, text string) {
	w, h := c.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		c.SetContent(x, y, r, nil, style)
		x++
	}
}
