package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/bookcard/layout"
)

const (
	patternCell  = 20 * layout.PxToMm // background-size: 20px 20px
	patternLine  = 1 * layout.PxToMm
	stripeGap    = 11 * layout.PxToMm
	overlayAlpha = 0.4
	gradientLUT  = 256
)

var transparent = color.RGBA{}

func (r *Renderer) drawBackground(ctx *canvas.Context, l *layout.CardLayout) error {
	bg := l.Background
	switch bg.Type {
	case "gradient":
		r.drawImage(ctx, gradientImage(bg, pixels(l.Width), pixels(l.Height)), l.Width)
	case "pattern":
		fillRect(ctx, 0, 0, l.Width, l.Height, canvas.White)
		drawPattern(ctx, bg.Pattern, colorFromLayout(bg.PatternColor), l.Width, l.Height)
	case "image":
		img, err := r.coverImage(bg, pixels(l.Width), pixels(l.Height))
		if err != nil {
			return err
		}
		r.drawImage(ctx, img, l.Width)
		if bg.Overlay {
			fillRect(ctx, 0, 0, l.Width, l.Height, canvas.RGBA(0, 0, 0, overlayAlpha))
		}
	default:
		fillRect(ctx, 0, 0, l.Width, l.Height, colorFromLayout(bg.Color))
	}
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, img image.Image, widthMM float64) {
	dpmm := float64(img.Bounds().Dx()) / widthMM
	if dpmm <= 0 {
		dpmm = 1
	}
	ctx.DrawImage(0, 0, img, canvas.DPMM(dpmm))
}

// gradientImage renders a CSS-style linear gradient (0deg = bottom→top,
// 90deg = left→right, 180deg = top→bottom) blended in CIE-Lab.
func gradientImage(bg layout.Background, w, h int) image.Image {
	from := toColorful(bg.Gradient[0])
	to := toColorful(bg.Gradient[1])
	lut := make([]color.RGBA, gradientLUT)
	for i := range lut {
		c := from.BlendLab(to, float64(i)/float64(gradientLUT-1)).Clamped()
		r, g, b := c.RGB255()
		lut[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}

	rad := bg.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	// 渐变线长度使两个角正好落在 0 与 1 上
	half := (math.Abs(float64(w)*dx) + math.Abs(float64(h)*dy)) / 2
	if half == 0 {
		half = 1
	}
	cx, cy := float64(w)/2, float64(h)/2

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := ((float64(x)+0.5-cx)*dx + (float64(y)+0.5-cy)*dy) / (2 * half)
			idx := int(math.Round((t + 0.5) * float64(gradientLUT-1)))
			idx = min(max(idx, 0), gradientLUT-1)
			img.SetRGBA(x, y, lut[idx])
		}
	}
	return img
}

func drawPattern(ctx *canvas.Context, pattern string, col color.Color, w, h float64) {
	switch pattern {
	case "lines":
		ctx.SetFillColor(transparent)
		ctx.SetStrokeColor(col)
		ctx.SetStrokeWidth(patternLine)
		for off := -h; off < w; off += stripeGap {
			p := &canvas.Path{}
			p.MoveTo(0, 0)
			p.LineTo(h, h)
			ctx.DrawPath(off, 0, p)
		}
	case "grid":
		for x := 0.0; x < w; x += patternCell {
			fillRect(ctx, x, 0, patternLine, h, col)
		}
		for y := 0.0; y < h; y += patternCell {
			fillRect(ctx, 0, y, w, patternLine, col)
		}
	case "zigzag":
		quarter := patternCell / 4
		for y := 0.0; y < h; y += patternCell {
			for x := 0.0; x < w; x += patternCell {
				tri := &canvas.Path{}
				tri.MoveTo(0, 0)
				tri.LineTo(quarter, 0)
				tri.LineTo(0, quarter)
				tri.Close()
				fill(ctx, x, y, tri, col)
				opp := &canvas.Path{}
				opp.MoveTo(patternCell, patternCell)
				opp.LineTo(patternCell-quarter, patternCell)
				opp.LineTo(patternCell, patternCell-quarter)
				opp.Close()
				fill(ctx, x, y, opp, col)
			}
		}
	default: // dots
		for y := patternCell / 2; y < h; y += patternCell {
			for x := patternCell / 2; x < w; x += patternCell {
				fill(ctx, x, y, canvas.Circle(patternLine), col)
			}
		}
	}
}

// coverImage loads the background image and scales it to cover w×h pixels,
// cropping the overflow around the centre. Blur is approximated by a
// down/up-scale round trip.
func (r *Renderer) coverImage(bg layout.Background, w, h int) (image.Image, error) {
	f, err := os.Open(r.resolvePath(bg.ImagePath))
	if err != nil {
		return nil, fmt.Errorf("读取背景图片 %s 失败: %w", bg.ImagePath, err)
	}
	defer f.Close()
	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("解码背景图片 %s 失败: %w", bg.ImagePath, err)
	}

	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return nil, fmt.Errorf("背景图片 %s 尺寸为空", bg.ImagePath)
	}
	scale := math.Max(float64(w)/float64(sw), float64(h)/float64(sh))
	tw, th := int(math.Ceil(float64(sw)*scale)), int(math.Ceil(float64(sh)*scale))
	scaled := resize.Resize(uint(tw), uint(th), src, resize.Lanczos3)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	offset := image.Pt((scaled.Bounds().Dx()-w)/2, (scaled.Bounds().Dy()-h)/2).Add(scaled.Bounds().Min)
	draw.Draw(out, out.Bounds(), scaled, offset, draw.Src)

	if bg.Blur > 0 {
		factor := 1 + bg.Blur
		small := resize.Resize(uint(math.Max(float64(w)/factor, 1)), 0, out, resize.Bilinear)
		return resize.Resize(uint(w), uint(h), small, resize.Bilinear), nil
	}
	return out, nil
}

func fillRect(ctx *canvas.Context, x, y, w, h float64, col color.Color) {
	fill(ctx, x, y, canvas.Rectangle(w, h), col)
}

func fill(ctx *canvas.Context, x, y float64, p *canvas.Path, col color.Color) {
	ctx.SetFillColor(col)
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(x, y, p)
}

func toColorful(c layout.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// pixels converts a length in mm to whole CSS pixels.
func pixels(mm float64) int {
	return max(int(math.Round(mm*layout.MmToPx)), 1)
}
