package export

import (
	"bytes"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	apperrors "github.com/matzehuels/skillflow/pkg/errors"
	"github.com/matzehuels/skillflow/pkg/fonts"
	"github.com/matzehuels/skillflow/pkg/workflow"
)

// Canvas geometry of the workflow graphic.
const (
	CanvasWidth  = 1200
	CanvasHeight = 800

	NodeWidth  = 160
	NodeHeight = 80
	nodeRadius = 15

	// DescriptionLimit is the number of description characters drawn per node.
	DescriptionLimit = 15
)

// Default palette of the workflow graphic.
const (
	DefaultGradientFrom = "#faf8f3"
	DefaultGradientTo   = "#f0e6ff"
	DefaultAccent       = "#4ecdc4"
	titleColor          = "#2d2d2d"
)

// PNGOption configures [RenderPNG] and [RenderImage].
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	gradientFrom string
	gradientTo   string
	accent       string
}

// WithGradient overrides the background gradient colors (hex).
func WithGradient(from, to string) PNGOption {
	return func(r *pngRenderer) { r.gradientFrom, r.gradientTo = from, to }
}

// WithAccent overrides the connection stroke color (hex).
func WithAccent(c string) PNGOption { return func(r *pngRenderer) { r.accent = c } }

type faces struct {
	title, nodeTitle, description font.Face
}

func loadFaces() (faces, error) {
	var f faces
	var err error
	if f.title, err = fonts.Face(fonts.Bold, 32); err != nil {
		return f, err
	}
	if f.nodeTitle, err = fonts.Face(fonts.Bold, 14); err != nil {
		return f, err
	}
	f.description, err = fonts.Face(fonts.Regular, 12)
	return f, err
}

// RenderImage draws the workflow graphic for p.
//
// Layers, in order: diagonal background gradient, project name, nodes (rounded
// boxes with title and truncated description), then connections as quadratic
// curves from the right middle of the source to the left middle of the target.
func RenderImage(p workflow.Project, opts ...PNGOption) (image.Image, error) {
	dc, err := draw(p, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// RenderPNG draws the workflow graphic for p and encodes it as PNG.
func RenderPNG(p workflow.Project, opts ...PNGOption) ([]byte, error) {
	dc, err := draw(p, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func draw(p workflow.Project, opts []PNGOption) (*gg.Context, error) {
	r := pngRenderer{
		gradientFrom: DefaultGradientFrom,
		gradientTo:   DefaultGradientTo,
		accent:       DefaultAccent,
	}
	for _, opt := range opts {
		opt(&r)
	}

	from, err := parseHexColor(r.gradientFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseHexColor(r.gradientTo)
	if err != nil {
		return nil, err
	}
	accent, err := parseHexColor(r.accent)
	if err != nil {
		return nil, err
	}

	ff, err := loadFaces()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeUnsupported, err, "graphic export is not available")
	}

	dc := gg.NewContext(CanvasWidth, CanvasHeight)

	grad := gg.NewLinearGradient(0, 0, CanvasWidth, CanvasHeight)
	grad.AddColorStop(0, from)
	grad.AddColorStop(1, to)
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, CanvasWidth, CanvasHeight)
	dc.Fill()

	dc.SetFontFace(ff.title)
	dc.SetHexColor(titleColor)
	dc.DrawString(p.Name, 40, 50)

	for _, n := range p.Nodes {
		drawNode(dc, ff, n)
	}

	dc.SetColor(accent)
	dc.SetLineWidth(2)
	for _, rc := range p.ResolvedConnections() {
		a, b := rc.From.Position, rc.To.Position
		dc.MoveTo(a.X+NodeWidth, a.Y+NodeHeight/2)
		dc.QuadraticTo((a.X+b.X)/2, (a.Y+b.Y)/2, b.X, b.Y+NodeHeight/2)
		dc.Stroke()
	}

	return dc, nil
}

func drawNode(dc *gg.Context, ff faces, n workflow.Node) {
	fill, err := parseHexColor(n.Color)
	if err != nil {
		fill, _ = parseHexColor(n.Kind.Color())
	}
	x, y := n.Position.X, n.Position.Y

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x, y, NodeWidth, NodeHeight, nodeRadius)
	dc.Fill()

	dc.SetFontFace(ff.nodeTitle)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(n.Title, x+15, y+30)

	dc.SetFontFace(ff.description)
	dc.SetRGBA(1, 1, 1, 0.8)
	dc.DrawString(truncate(n.Description, DescriptionLimit), x+15, y+55)
}

// truncate keeps the first n characters of s. No ellipsis is added.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func parseHexColor(s string) (color.RGBA, error) {
	if err := apperrors.ValidateHexColor(s); err != nil {
		return color.RGBA{}, err
	}
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	v, _ := strconv.ParseUint(h, 16, 32)
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
