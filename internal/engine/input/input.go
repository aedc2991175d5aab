// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/virtual-world/internal/engine/controls"
)

// EventType classifies polled events.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    controls.Key
	Width  int
	Height int
	DX     float32 // Relative mouse motion
	DY     float32
}

// Input polls SDL and forwards events to a controller.
type Input struct {
	events     []Event
	controller *controls.Controller
}

// New creates an input handler feeding controller, which may be nil.
func New(controller *controls.Controller) *Input {
	return &Input{
		events:     make([]Event, 0, 16),
		controller: controller,
	}
}

// Update polls SDL events, converts them and forwards them to the controller.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.push(Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.push(Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			key := translate(e.Keysym.Scancode)
			if key == controls.KeyUnknown {
				continue
			}
			if e.Type == sdl.KEYDOWN {
				i.push(Event{Type: EventKeyDown, Key: key})
			} else if e.Type == sdl.KEYUP {
				i.push(Event{Type: EventKeyUp, Key: key})
			}

		case *sdl.MouseMotionEvent:
			i.push(Event{
				Type: EventMouseMove,
				DX:   float32(e.XRel),
				DY:   float32(e.YRel),
			})
		}
	}

	return quit
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
	if i.controller == nil {
		return
	}
	switch e.Type {
	case EventQuit:
		i.controller.Quit()
	case EventKeyDown:
		i.controller.KeyDown(e.Key)
	case EventKeyUp:
		i.controller.KeyUp(e.Key)
	case EventMouseMove:
		i.controller.MouseMotion(e.DX, e.DY)
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

var scancodes = map[sdl.Scancode]controls.Key{
	sdl.SCANCODE_W:      controls.KeyW,
	sdl.SCANCODE_A:      controls.KeyA,
	sdl.SCANCODE_S:      controls.KeyS,
	sdl.SCANCODE_D:      controls.KeyD,
	sdl.SCANCODE_UP:     controls.KeyUp,
	sdl.SCANCODE_DOWN:   controls.KeyDown,
	sdl.SCANCODE_LEFT:   controls.KeyLeft,
	sdl.SCANCODE_RIGHT:  controls.KeyRight,
	sdl.SCANCODE_ESCAPE: controls.KeyEscape,
	sdl.SCANCODE_F12:    controls.KeyF12,
	sdl.SCANCODE_R:      controls.KeyR,
}

func translate(sc sdl.Scancode) controls.Key {
	if k, ok := scancodes[sc]; ok {
		return k
	}
	return controls.KeyUnknown
}
