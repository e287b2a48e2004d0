package preview

import "github.com/veandco/go-sdl2/sdl"

// Action is an editor command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPrevSlot
	ActionNextSlot
	ActionRandomize
	ActionLucky
	ActionExport
	ActionImport
	ActionReset
	ActionToggleMode
	ActionSave
)

var keyActions = map[sdl.Keycode]Action{
	sdl.K_ESCAPE: ActionQuit,
	sdl.K_q:      ActionQuit,
	sdl.K_UP:     ActionPrevSlot,
	sdl.K_k:      ActionPrevSlot,
	sdl.K_DOWN:   ActionNextSlot,
	sdl.K_j:      ActionNextSlot,
	sdl.K_r:      ActionRandomize,
	sdl.K_l:      ActionLucky,
	sdl.K_e:      ActionExport,
	sdl.K_c:      ActionExport,
	sdl.K_i:      ActionImport,
	sdl.K_v:      ActionImport,
	sdl.K_d:      ActionReset,
	sdl.K_m:      ActionToggleMode,
	sdl.K_w:      ActionSave,
}

// actionFor maps a pressed key to an action.
func actionFor(key sdl.Keycode) Action {
	return keyActions[key]
}

// pollActions drains pending SDL events and returns the resulting actions
// and whether the window was resized.
func pollActions() (actions []Action, resized bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			actions = append(actions, ActionQuit)

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				resized = true
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				if a := actionFor(e.Keysym.Sym); a != ActionNone {
					actions = append(actions, a)
				}
			}
		}
	}
	return actions, resized
}
