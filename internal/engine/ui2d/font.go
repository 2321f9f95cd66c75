package ui2d

import (
	"image"
	"image/draw"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph = ' '
	lastGlyph  = '~'
	glyphCount = lastGlyph - firstGlyph + 1
)

// Font is a fixed-width glyph atlas rendered from basicfont.Face7x13.
type Font struct {
	texture uint32
	glyphW  int
	glyphH  int
}

// NewFont rasterizes printable ASCII into a single-row atlas and uploads it.
func NewFont() *Font {
	face := basicfont.Face7x13
	f := &Font{glyphW: face.Advance, glyphH: face.Height}

	atlas := f.rasterize(face)

	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA,
		int32(atlas.Rect.Dx()), int32(atlas.Rect.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(atlas.Pix))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return f
}

func (f *Font) rasterize(face *basicfont.Face) *image.RGBA {
	atlas := image.NewRGBA(image.Rect(0, 0, f.glyphW*glyphCount, f.glyphH))
	draw.Draw(atlas, atlas.Bounds(), image.Transparent, image.Point{}, draw.Src)

	d := &font.Drawer{Dst: atlas, Src: image.White, Face: face}
	for i := 0; i < glyphCount; i++ {
		d.Dot = fixed.P(i*f.glyphW, face.Ascent)
		d.DrawString(string(rune(firstGlyph + i)))
	}
	return atlas
}

// Close releases the atlas texture.
func (f *Font) Close() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}

// TextureID returns the atlas texture.
func (f *Font) TextureID() uint32 {
	return f.texture
}

// GlyphSize returns the cell size of one glyph in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GetGlyphUV returns atlas coordinates for ch. Unprintable runes map to '?'.
func (f *Font) GetGlyphUV(ch rune) (u0, v0, u1, v1 float32) {
	if ch < firstGlyph || ch > lastGlyph {
		ch = '?'
	}
	i := float32(ch - firstGlyph)
	return i / glyphCount, 0, (i + 1) / glyphCount, 1
}

// MeasureText returns the size of text at scale.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	longest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > longest {
			longest = n
		}
	}
	return float32(longest*f.glyphW) * scale, float32(len(lines)*f.glyphH) * scale
}
