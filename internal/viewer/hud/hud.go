// Package hud draws the level bar and status line with ui2d.
package hud

import (
	"github.com/Faultbox/levelview/internal/engine/ui2d"
	"github.com/Faultbox/levelview/internal/viewer"
)

const (
	buttonW = float32(210)
	buttonH = float32(32)
	margin  = float32(16)
)

// HUD implements viewer.Overlay.
type HUD struct {
	ui    *ui2d.Context
	scale float32 // drawable pixels per window point
}

// New creates the overlay. Requires a current GL context.
func New(width, height int) (*HUD, error) {
	ui, err := ui2d.NewContext(width, height)
	if err != nil {
		return nil, err
	}
	return &HUD{ui: ui, scale: 1}, nil
}

// Input exposes the mouse state fed by the event loop.
func (h *HUD) Input() *ui2d.InputState {
	return h.ui.Input()
}

// SetScale sets the HiDPI ratio used to turn drawable sizes into points.
func (h *HUD) SetScale(scale float32) {
	if scale > 0 {
		h.scale = scale
	}
}

// Resize takes the drawable size and lays out in window points, matching
// the mouse coordinates SDL reports.
func (h *HUD) Resize(width, height int) {
	h.ui.Resize(int(float32(width)/h.scale), int(float32(height)/h.scale))
}

// Close releases GL resources.
func (h *HUD) Close() {
	h.ui.Close()
}

// Draw lays the buttons out in a bottom-centred row with the status above.
func (h *HUD) Draw(buttons []viewer.Button, status viewer.Status) string {
	h.ui.Begin()
	defer h.ui.End()

	screenW, screenH := h.ui.GetScreenSize()
	panelW := ui2d.RowWidth(len(buttons), buttonW)
	_, textH := h.ui.MeasureText(status.String())
	panelH := buttonH + textH + 28
	x := (screenW - panelW) / 2
	y := screenH - panelH - margin

	h.ui.BeginWindow("levels", x, y, panelW, panelH, "")
	defer h.ui.EndWindow()

	statusColor := ui2d.ColorTextDim
	switch status.Kind {
	case viewer.StatusFailed:
		statusColor = ui2d.ColorError
	case viewer.StatusReady:
		statusColor = ui2d.ColorText
	}
	h.ui.Row(textH)
	h.ui.LabelCentered(status.String(), statusColor)

	h.ui.Row(buttonH)
	clicked := ""
	for _, b := range buttons {
		if h.ui.ToggleButton(b.ID, buttonW, b.Label, b.Active, b.Enabled) {
			clicked = b.ID
		}
	}
	return clicked
}
