package renderer

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// defaultFontPath is tried when no font is configured
const defaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"

var subtitleTextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Renderer paints translated subtitles onto raw bgr24 frames. Rectangle
// mode covers the detected text with a box filled in the region's dominant
// color and draws the translation centered inside the original box; inpaint
// mode is accepted for configuration compatibility but currently renders
// the same way.
type Renderer struct {
	mode    string
	padding int
	face    font.Face
	logger  *zap.Logger
}

// NewRenderer creates a Renderer for the given mode, box padding, and font.
// fontPath may be empty to use the system default font; when no usable font
// file is found the bundled bitmap face is used instead.
func NewRenderer(mode string, padding int, fontPath string, fontSize int) (*Renderer, error) {
	if mode != "rectangle" && mode != "inpaint" {
		return nil, fmt.Errorf("unsupported render mode %q", mode)
	}
	if padding < 0 {
		return nil, fmt.Errorf("padding cannot be negative, got %d", padding)
	}
	if fontSize < 1 {
		return nil, fmt.Errorf("font size must be positive, got %d", fontSize)
	}

	return &Renderer{
		mode:    mode,
		padding: padding,
		face:    loadFontFace(fontPath, fontSize),
		logger:  zap.NewNop(), // Default to no-op logger
	}, nil
}

// NewRendererWithLogger creates a Renderer with a custom logger
func NewRendererWithLogger(mode string, padding int, fontPath string, fontSize int, logger *zap.Logger) (*Renderer, error) {
	r, err := NewRenderer(mode, padding, fontPath, fontSize)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		r.logger = logger
	}
	return r, nil
}

// loadFontFace loads the requested truetype font at the given size, falling
// back to the bundled bitmap face when the file is missing or unparseable
func loadFontFace(fontPath string, fontSize int) font.Face {
	if fontPath == "" {
		fontPath = defaultFontPath
	}

	data, err := os.ReadFile(fontPath)
	if err != nil {
		return basicfont.Face7x13
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    float64(fontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}

	return face
}

// Render paints the translated subtitle onto the frame in place: the text
// is measured, centered inside the segment's box, backed by a padded
// rectangle filled with the box region's dominant color, and drawn in
// white. Malformed boxes render nothing.
func (r *Renderer) Render(frame []byte, width, height int, seg *TranslatedSegment) error {
	if len(frame) != width*height*3 {
		return fmt.Errorf("frame size mismatch: got %d bytes, want %d", len(frame), width*height*3)
	}

	x0 := clamp(seg.BBox.X, 0, width)
	x1 := clamp(seg.BBox.X+seg.BBox.Width, 0, width)
	y0 := clamp(seg.BBox.Y, 0, height)
	y1 := clamp(seg.BBox.Y+seg.BBox.Height, 0, height)

	if x0 >= x1 || y0 >= y1 {
		r.logger.Debug("skipping degenerate subtitle box",
			zap.Int("x", seg.BBox.X),
			zap.Int("y", seg.BBox.Y),
			zap.Int("width", seg.BBox.Width),
			zap.Int("height", seg.BBox.Height))
		return nil
	}

	// The fill color comes from the box region before anything is painted,
	// so the background blends with the surrounding frame.
	bg := dominantColor(frame, width, x0, y0, x1, y1)

	bounds, _ := font.BoundString(r.face, seg.TranslatedText)
	textWidth := (bounds.Max.X - bounds.Min.X).Ceil()
	textHeight := (bounds.Max.Y - bounds.Min.Y).Ceil()

	// Center the translation inside the original subtitle box
	textX := seg.BBox.X + (seg.BBox.Width-textWidth)/2
	textY := seg.BBox.Y + (seg.BBox.Height-textHeight)/2

	fillRect(frame, width, height,
		textX-r.padding, textY-r.padding,
		textX+textWidth+r.padding, textY+textHeight+r.padding, bg)

	drawer := font.Drawer{
		Dst:  &bgrFrame{pix: frame, width: width, height: height},
		Src:  image.NewUniform(subtitleTextColor),
		Face: r.face,
		Dot: fixed.Point26_6{
			X: fixed.I(textX) - bounds.Min.X,
			Y: fixed.I(textY) - bounds.Min.Y,
		},
	}
	drawer.DrawString(seg.TranslatedText)

	return nil
}

// dominantColor returns the most frequent bgr pixel value inside the given
// region. Ties break toward the lowest packed value so results are stable.
func dominantColor(frame []byte, width, x0, y0, x1, y1 int) [3]byte {
	counts := make(map[[3]byte]int)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := (y*width + x) * 3
			counts[[3]byte{frame[i], frame[i+1], frame[i+2]}]++
		}
	}

	var best [3]byte
	bestCount := 0
	for c, n := range counts {
		if n > bestCount || (n == bestCount && packBGR(c) < packBGR(best)) {
			best = c
			bestCount = n
		}
	}
	return best
}

func packBGR(c [3]byte) int {
	return int(c[0])<<16 | int(c[1])<<8 | int(c[2])
}

// fillRect fills the rectangle with a bgr color, clamped to frame bounds
func fillRect(frame []byte, width, height, x0, y0, x1, y1 int, bgr [3]byte) {
	x0 = clamp(x0, 0, width)
	x1 = clamp(x1, 0, width)
	y0 = clamp(y0, 0, height)
	y1 = clamp(y1, 0, height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := (y*width + x) * 3
			frame[i] = bgr[0]
			frame[i+1] = bgr[1]
			frame[i+2] = bgr[2]
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
