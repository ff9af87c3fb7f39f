package wm

import "github.com/ruisapp-go/ruisapp/event"

// recordedCall captures one Sink method invocation for assertions in
// table-driven tests; fields unused by a given call stay zero.
type recordedCall struct {
	method  string
	action  event.Action
	pos     event.Vec2
	button  event.MouseButton
	pointer event.PointerID
	key     event.Key
	hovered bool
}

type fakeSink struct {
	calls []recordedCall
}

func (f *fakeSink) SendMouseMove(pos event.Vec2, pointer event.PointerID) {
	f.calls = append(f.calls, recordedCall{method: "move", pos: pos, pointer: pointer})
}

func (f *fakeSink) SendMouseButton(action event.Action, pos event.Vec2, button event.MouseButton, pointer event.PointerID) {
	f.calls = append(f.calls, recordedCall{method: "button", action: action, pos: pos, button: button, pointer: pointer})
}

func (f *fakeSink) SendMouseHover(hovered bool, pointer event.PointerID) {
	f.calls = append(f.calls, recordedCall{method: "hover", hovered: hovered, pointer: pointer})
}

func (f *fakeSink) SendKey(action event.Action, key event.Key) {
	f.calls = append(f.calls, recordedCall{method: "key", action: action, key: key})
}

func (f *fakeSink) SendCharacterInput(provider event.CharacterProvider, key event.Key) {
	f.calls = append(f.calls, recordedCall{method: "char", key: key})
}

var _ event.Sink = (*fakeSink)(nil)
