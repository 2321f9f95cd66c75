package ui2d

import "fmt"

const (
	textScale   = float32(2.0)
	padding     = float32(8)
	spacing     = float32(4)
	defaultRowH = float32(28)
	titleBarH   = float32(25)
)

// Context is the main UI context that manages rendering and input.
type Context struct {
	renderer *Renderer
	input    *InputState

	hotWidget    string
	activeWidget string

	currentWindow *WindowState

	cursorX float32
	cursorY float32
	rowH    float32
}

// WindowState holds layout state for a panel.
type WindowState struct {
	ID   string
	X, Y float32
	W, H float32
}

// NewContext creates a UI context and its renderer.
func NewContext(width, height int) (*Context, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	return &Context{
		renderer: r,
		input:    &InputState{},
	}, nil
}

// Close releases resources.
func (c *Context) Close() {
	if c.renderer != nil {
		c.renderer.Close()
	}
}

// Resize updates the screen size.
func (c *Context) Resize(width, height int) {
	c.renderer.Resize(width, height)
}

// Input returns the input state for modification.
func (c *Context) Input() *InputState {
	return c.input
}

// Begin starts a new UI frame.
func (c *Context) Begin() {
	c.input.Update()
	c.renderer.Begin()
	c.hotWidget = ""
}

// End finishes the UI frame.
func (c *Context) End() {
	c.renderer.End()
	c.input.EndFrame()
}

// BeginWindow starts a panel. An empty title draws no title bar.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) {
	ws := &WindowState{ID: id, X: x, Y: y, W: w, H: h}
	c.currentWindow = ws

	c.renderer.DrawPanel(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg, ColorPanelBorder)

	c.cursorX = ws.X + padding
	c.cursorY = ws.Y + padding
	if title != "" {
		c.renderer.DrawRect(ws.X+1, ws.Y+1, ws.W-2, titleBarH-1, ColorButtonNormal)
		_, textH := c.renderer.MeasureText(title, textScale)
		c.renderer.DrawText(ws.X+padding, ws.Y+(titleBarH-textH)/2, title, textScale, ColorText)
		c.cursorY += titleBarH
	}
	c.rowH = 0
}

// EndWindow ends the current window.
func (c *Context) EndWindow() {
	c.currentWindow = nil
}

// Row starts a new row with the given height.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	c.cursorX = c.currentWindow.X + padding
	c.cursorY += c.rowH + spacing
	c.rowH = height
}

// ToggleButton draws a button that stays highlighted while active.
// Disabled buttons are dimmed and never report a click.
func (c *Context) ToggleButton(id string, width float32, label string, active, enabled bool) bool {
	if c.currentWindow == nil {
		return false
	}

	x, y := c.cursorX, c.cursorY
	h := c.rowH
	if h == 0 {
		h = defaultRowH
	}
	if width == 0 {
		width = c.currentWindow.W - padding*2
	}
	c.cursorX += width + spacing

	fullID := c.currentWindow.ID + "_" + id
	rect := Rect{x, y, width, h}
	hovered := enabled && rect.Contains(c.input.MouseX, c.input.MouseY)

	clicked := false
	if hovered {
		c.hotWidget = fullID
		if c.input.MouseLeftPressed || c.input.MouseLeftClicked {
			c.activeWidget = fullID
			clicked = true
			// Only one widget gets the click.
			c.input.MouseLeftClicked = false
			c.input.MouseLeftPressed = false
		}
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}

	bg, border, text := ColorButtonNormal, ColorPanelBorder, ColorText
	switch {
	case !enabled:
		bg, border, text = bg.Darken(0.3), border.Darken(0.3), ColorTextDim
	case active:
		bg, border = ColorButtonActive, ColorHighlight
	case c.activeWidget == fullID:
		bg = ColorButtonActive
	case hovered:
		bg = ColorButtonHover
	}

	c.renderer.DrawRect(x, y, width, h, bg)
	c.renderer.DrawRectOutline(x, y, width, h, 1, border)

	textW, textH := c.renderer.MeasureText(label, textScale)
	c.renderer.DrawText(x+(width-textW)/2, y+(h-textH)/2, label, textScale, text)

	return clicked
}

// RowWidth returns the window width that fits n items of itemW side by
// side, matching the layout of ToggleButton.
func RowWidth(n int, itemW float32) float32 {
	if n <= 0 {
		return padding * 2
	}
	return float32(n)*(itemW+spacing) - spacing + padding*2
}

// LabelCentered draws text centered in the current window.
func (c *Context) LabelCentered(text string, color Color) {
	if c.currentWindow == nil {
		return
	}
	textW, _ := c.renderer.MeasureText(text, textScale)
	contentW := c.currentWindow.W - padding*2
	x := c.currentWindow.X + padding + (contentW-textW)/2
	if x < c.currentWindow.X+padding {
		x = c.currentWindow.X + padding
	}
	c.renderer.DrawText(x, c.cursorY, text, textScale, color)
}

// MeasureText returns the size of text at the default scale.
func (c *Context) MeasureText(text string) (float32, float32) {
	return c.renderer.MeasureText(text, textScale)
}

// GetScreenSize returns the current screen dimensions.
func (c *Context) GetScreenSize() (float32, float32) {
	w, h := c.renderer.GetScreenSize()
	return float32(w), float32(h)
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
