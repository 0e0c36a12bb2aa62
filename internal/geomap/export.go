package geomap

import (
	"io"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"
)

// Draw paints every region of m onto c. gonum canvases put the origin at the
// bottom-left, so y is flipped.
func Draw(c vg.Canvas, m RenderedMap) {
	c.SetLineWidth(vg.Length(0.5))
	for _, r := range m.Regions {
		if len(r.Rings) == 0 {
			continue
		}
		var p vg.Path
		for _, ring := range r.Rings {
			for i, pt := range ring {
				vp := vg.Point{X: vg.Length(pt.X), Y: vg.Length(m.Height - pt.Y)}
				if i == 0 {
					p.Move(vp)
				} else {
					p.Line(vp)
				}
			}
			p.Close()
		}
		c.SetColor(parseFill(r.Fill))
		c.Fill(p)
		c.SetColor(parseFill(StrokeColor))
		c.Stroke(p)
	}
}

// WriteSVG encodes m as a standalone SVG document.
func WriteSVG(w io.Writer, m RenderedMap) error {
	c := vgsvg.New(vg.Length(m.Width), vg.Length(m.Height))
	Draw(c, m)
	_, err := c.WriteTo(w)
	return err
}

// WritePNG rasterizes m at one pixel per logical unit.
func WritePNG(w io.Writer, m RenderedMap) error {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(m.Width), vg.Length(m.Height)),
		vgimg.UseDPI(72),
	)
	Draw(c, m)
	_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
