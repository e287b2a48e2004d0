package preview

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/saturn-colors/internal/editor"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

const frameDelay = 16 * time.Millisecond

// Controller applies actions to a session. It holds the UI state that is
// not part of the palette, so it can be driven without a window.
type Controller struct {
	session       *editor.Session
	selected      palette.Slot
	mode          palette.RandomMode
	luckyLeft     int
	luckyInterval time.Duration
	nextLucky     time.Time
	status        string
}

// NewController creates a controller for session.
func NewController(session *editor.Session, mode palette.RandomMode, luckyInterval time.Duration) *Controller {
	if mode == "" {
		mode = palette.RandomUniform
	}
	return &Controller{
		session:       session,
		mode:          mode,
		luckyInterval: luckyInterval,
	}
}

// Selected returns the highlighted slot.
func (c *Controller) Selected() palette.Slot {
	return c.selected
}

// Status returns the message from the last action.
func (c *Controller) Status() string {
	return c.status
}

// Busy reports whether a lucky animation is still running.
func (c *Controller) Busy() bool {
	return c.luckyLeft > 0
}

// Handle applies one action. It returns false when the editor should close.
func (c *Controller) Handle(a Action, now time.Time) bool {
	switch a {
	case ActionQuit:
		return false
	case ActionPrevSlot:
		c.selected = (c.selected + palette.Slot(palette.SlotCount) - 1) % palette.Slot(palette.SlotCount)
	case ActionNextSlot:
		c.selected = (c.selected + 1) % palette.Slot(palette.SlotCount)
	case ActionRandomize:
		c.session.Randomize()
		c.status = "randomized"
	case ActionLucky:
		c.luckyLeft = c.session.LuckyRounds()
		c.nextLucky = now
		c.status = fmt.Sprintf("feeling lucky (%d)", c.luckyLeft)
	case ActionExport:
		if _, err := c.session.Export(); err != nil {
			c.status = "copy failed"
		} else {
			c.status = "code copied to clipboard"
		}
	case ActionImport:
		if err := c.session.ImportClipboard(); err != nil {
			c.status = "could not import"
		} else {
			c.status = "code imported"
		}
	case ActionReset:
		c.session.Reset()
		c.status = "stock colors"
	case ActionSave:
		if path, err := c.session.SaveFile(); err != nil {
			c.status = "save failed"
		} else {
			c.status = "saved " + path
		}
	case ActionToggleMode:
		if c.mode == palette.RandomHSV {
			c.mode = palette.RandomUniform
		} else {
			c.mode = palette.RandomHSV
		}
		c.session.SetRandomMode(c.mode)
		c.status = "random mode: " + string(c.mode)
	}
	return true
}

// Tick advances a running lucky animation by at most one re-roll.
func (c *Controller) Tick(now time.Time) {
	if c.luckyLeft == 0 || now.Before(c.nextLucky) {
		return
	}
	c.session.Randomize()
	c.luckyLeft--
	c.nextLucky = now.Add(c.luckyInterval)
}

// Title formats the window title for the current state.
func (c *Controller) Title(p palette.Palette) string {
	e := p[c.selected]
	title := fmt.Sprintf("Saturn Color Editor - %s: %s / %s [%s]",
		c.selected.Label(), e.Primary.Hex(), e.Ambient.Hex(), c.mode)
	if c.status != "" {
		title += " - " + c.status
	}
	return title
}

// Run opens a window and processes input until it is closed.
func Run(cfg Config, session *editor.Session, ctrl *Controller, log *zap.Logger) error {
	if session == nil || ctrl == nil {
		return errors.New("preview: session and controller are required")
	}
	w, err := Open(cfg, log)
	if err != nil {
		return err
	}
	defer w.Close()

	// Redraw only when something changed.
	var changed atomic.Bool
	changed.Store(true)
	unsubscribe := session.Subscribe(func(palette.Palette) { changed.Store(true) })
	defer unsubscribe()

	for {
		now := time.Now()
		actions, resized := pollActions()
		for _, a := range actions {
			if !ctrl.Handle(a, now) {
				return nil
			}
			changed.Store(true)
		}
		ctrl.Tick(now)

		if changed.Swap(false) || resized {
			p := session.Snapshot()
			w.SetTitle(ctrl.Title(p))
			w.Draw(p, ctrl.Selected())
		}
		time.Sleep(frameDelay)
	}
}
