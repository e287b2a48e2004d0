// Package editor owns the palette being edited and the operations a user can
// apply to it: direct edits, randomization, and code import/export.
package editor

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/saturn-colors/internal/clipboard"
	"github.com/Faultbox/saturn-colors/pkg/colormath"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

// Options configures a Session. Zero values get defaults.
type Options struct {
	Initial        *palette.Palette // defaults to palette.Default()
	Codec          *palette.Codec   // defaults to the US table
	Clipboard      clipboard.Clipboard
	Rand           *rand.Rand
	RandomMode     palette.RandomMode
	LuckyMaxRounds int
	Logger         *zap.Logger
	// File is where SaveFile writes the palette.
	File string
}

// Listener is called with a snapshot after every change. Listeners run one
// change at a time, in the order the changes were made, and must not modify
// the session.
type Listener func(p palette.Palette)

// Session is the editable palette shared by the UIs. All methods are safe
// for concurrent use.
type Session struct {
	mu        sync.Mutex
	pal       palette.Palette
	codec     *palette.Codec
	clip      clipboard.Clipboard
	rng       *rand.Rand
	mode      palette.RandomMode
	luckyMax  int
	file      string
	log       *zap.Logger
	listeners map[int]Listener
	nextID    int
	seq       uint64 // changes made, guarded by mu

	// Notifications go out in seq order.
	notifyMu  sync.Mutex
	turn      *sync.Cond
	delivered uint64
}

// New creates a session.
func New(opts Options) *Session {
	s := &Session{
		pal:       palette.Default(),
		codec:     opts.Codec,
		clip:      opts.Clipboard,
		rng:       opts.Rand,
		mode:      opts.RandomMode,
		luckyMax:  opts.LuckyMaxRounds,
		file:      opts.File,
		log:       opts.Logger,
		listeners: make(map[int]Listener),
	}
	s.turn = sync.NewCond(&s.notifyMu)
	if opts.Initial != nil {
		s.pal = *opts.Initial
	}
	if s.codec == nil {
		s.codec = palette.NewCodec(palette.TableSM64US)
	}
	if s.clip == nil {
		s.clip = clipboard.NewMemory()
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.mode == "" {
		s.mode = palette.RandomUniform
	}
	if s.luckyMax <= 0 {
		s.luckyMax = 100
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// Snapshot returns a copy of the current palette.
func (s *Session) Snapshot() palette.Palette {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pal
}

// Subscribe registers fn to run after every change and returns a function
// that removes it.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update runs fn under the lock and then notifies listeners outside it.
// Each change takes a ticket so that notifications for concurrent updates
// cannot overtake each other.
func (s *Session) update(fn func(p *palette.Palette) error) error {
	s.mu.Lock()
	next := s.pal
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.pal = next
	s.seq++
	seq := s.seq
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	s.notifyMu.Lock()
	for s.delivered != seq-1 {
		s.turn.Wait()
	}
	s.notifyMu.Unlock()

	for _, l := range listeners {
		l(next)
	}

	s.notifyMu.Lock()
	s.delivered = seq
	s.turn.Broadcast()
	s.notifyMu.Unlock()
	return nil
}

// SetColor replaces one color.
func (s *Session) SetColor(slot palette.Slot, field palette.Field, c colormath.Color) error {
	if !slot.Valid() {
		return fmt.Errorf("invalid slot %v", slot)
	}
	err := s.update(func(p *palette.Palette) error {
		p.SetColor(slot, field, c)
		return nil
	})
	if err == nil {
		s.log.Debug("color set",
			zap.Stringer("slot", slot),
			zap.Stringer("field", field),
			zap.String("color", c.Hex()),
		)
	}
	return err
}

// SetHex parses a "#RRGGBB" color and stores it.
func (s *Session) SetHex(slot palette.Slot, field palette.Field, text string) error {
	c, err := colormath.ParseHex(text)
	if err != nil {
		return err
	}
	return s.SetColor(slot, field, c)
}

// Replace swaps in a whole palette.
func (s *Session) Replace(p palette.Palette) {
	_ = s.update(func(cur *palette.Palette) error {
		*cur = p
		return nil
	})
}

// Reset restores the stock colors.
func (s *Session) Reset() {
	s.Replace(palette.Default())
	s.log.Info("palette reset")
}

// SetRandomMode changes how Randomize picks colors.
func (s *Session) SetRandomMode(mode palette.RandomMode) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// Randomize re-rolls every slot but Face.
func (s *Session) Randomize() {
	_ = s.update(func(p *palette.Palette) error {
		*p = palette.Randomize(*p, s.mode, s.rng)
		return nil
	})
}

// LuckyRounds draws how many times "I Feel Lucky" re-rolls, in
// [1, LuckyMaxRounds]. Interactive editors use it to animate the re-rolls.
func (s *Session) LuckyRounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 1 + s.rng.IntN(s.luckyMax)
}

// Lucky re-rolls a random number of times without pausing and returns the
// number of rounds.
func (s *Session) Lucky() int {
	n := s.LuckyRounds()
	for i := 0; i < n; i++ {
		s.Randomize()
	}
	s.log.Info("lucky palette", zap.Int("rounds", n))
	return n
}

// Code encodes the current palette.
func (s *Session) Code() string {
	return s.codec.Encode(s.Snapshot())
}

// CodeFor encodes p with the session's address table.
func (s *Session) CodeFor(p palette.Palette) string {
	return s.codec.Encode(p)
}

// Export encodes the current palette and copies it to the clipboard.
func (s *Session) Export() (string, error) {
	code := s.Code()
	if err := s.clip.WriteText(code); err != nil {
		s.log.Warn("clipboard write failed", zap.Error(err))
		return code, fmt.Errorf("copying code: %w", err)
	}
	s.log.Info("code exported", zap.Int("bytes", len(code)))
	return code, nil
}

// Import decodes a code block over the current palette. Colors the block
// does not mention keep their current values. On error nothing changes.
func (s *Session) Import(text string) error {
	err := s.update(func(p *palette.Palette) error {
		next, err := s.codec.DecodeOnto(*p, text)
		if err != nil {
			return err
		}
		*p = next
		return nil
	})
	if err != nil {
		s.log.Warn("could not import code", zap.Error(err))
		return fmt.Errorf("could not import: %w", err)
	}
	s.log.Info("code imported")
	return nil
}

// ImportClipboard imports the code currently on the clipboard.
func (s *Session) ImportClipboard() error {
	text, err := s.clip.ReadText()
	if err != nil {
		return fmt.Errorf("reading clipboard: %w", err)
	}
	return s.Import(text)
}
