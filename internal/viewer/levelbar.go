package viewer

import (
	"fmt"

	"github.com/Faultbox/levelview/internal/checkpoint"
)

// Button is the UI state of one checkpoint button.
type Button struct {
	ID      string
	Label   string
	Level   int
	Active  bool
	Enabled bool
}

// LevelBar binds one button per checkpoint to a request function.
type LevelBar struct {
	buttons []Button
	request func(level int) error
}

// NewLevelBar creates disabled buttons for every checkpoint. Level 0 starts
// active. request is called for every click or key press.
func NewLevelBar(list checkpoint.List, request func(level int) error) *LevelBar {
	b := &LevelBar{
		buttons: make([]Button, len(list)),
		request: request,
	}
	for i, cp := range list {
		b.buttons[i] = Button{
			ID:    checkpoint.ButtonID(cp.Level),
			Label: cp.Label,
			Level: cp.Level,
		}
	}
	b.Sync(0)
	return b
}

// Buttons returns a snapshot of the buttons in level order.
func (b *LevelBar) Buttons() []Button {
	out := make([]Button, len(b.buttons))
	copy(out, b.buttons)
	return out
}

// Enable makes every button clickable.
func (b *LevelBar) Enable() {
	for i := range b.buttons {
		b.buttons[i].Enabled = true
	}
}

// Enabled reports whether the buttons accept input.
func (b *LevelBar) Enabled() bool {
	return len(b.buttons) > 0 && b.buttons[0].Enabled
}

// Click handles a click on the button with the given element ID.
func (b *LevelBar) Click(id string) error {
	for _, btn := range b.buttons {
		if btn.ID == id {
			return b.Press(btn.Level)
		}
	}
	return fmt.Errorf("button %q: %w", id, ErrUnknownButton)
}

// Press forwards a level request when the buttons are enabled.
func (b *LevelBar) Press(level int) error {
	if !b.Enabled() {
		return ErrDisabled
	}
	return b.request(level)
}

// Sync marks exactly the button for level as active.
func (b *LevelBar) Sync(level int) {
	for i := range b.buttons {
		b.buttons[i].Active = b.buttons[i].Level == level
	}
}
