package ui2d

// InputState holds the current input state for the UI.
type InputState struct {
	MouseX float32
	MouseY float32

	MouseLeftDown bool

	// Set by the event loop when a button-down event arrives; survives
	// press and release inside one frame.
	MouseLeftClicked bool

	// Edges computed by Update
	MouseLeftPressed  bool
	MouseLeftReleased bool

	prevMouseLeft bool
}

// Update prepares input state for a new frame.
// Call this at the start of each frame after updating raw input values.
func (i *InputState) Update() {
	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft
	i.prevMouseLeft = i.MouseLeftDown
}

// EndFrame clears per-frame input state.
func (i *InputState) EndFrame() {
	i.MouseLeftClicked = false
}
