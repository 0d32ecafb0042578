package offcanvas

import (
	"errors"
	"image"
)

// ImageLookup resolves handles to bitmaps on the draw worker.
type ImageLookup interface {
	Lookup(h Handle) (image.Image, bool)
}

// Draw paints the tree rooted at n onto c. The canvas is expected to carry
// the surface base transform. An invisible node returns before touching the
// canvas, so its whole subtree is skipped. Canvas errors do not stop the
// traversal; they are joined and returned.
func Draw(c Canvas, n *RenderNode, images ImageLookup) error {
	var errs []error
	drawNode(c, n, images, &errs)
	return errors.Join(errs...)
}

func drawNode(c Canvas, n *RenderNode, images ImageLookup, errs *[]error) {
	if !n.Visible {
		return
	}
	c.Save()
	c.Translate(n.Pos[0], n.Pos[1])
	c.Rotate(n.Angle)

	// Local y points down for the shape itself.
	c.Save()
	c.Scale(1, -1)
	c.SetFilter(n.Filter)
	c.SetAlpha(n.Alpha)
	if err := drawShape(c, n, images); err != nil {
		*errs = append(*errs, err)
	}
	c.Restore()

	for _, ch := range n.Children {
		drawNode(c, ch, images, errs)
	}
	c.Restore()
}

func drawShape(c Canvas, n *RenderNode, images ImageLookup) error {
	w, h := n.Size[0], n.Size[1]
	switch n.Kind {
	case ShapeRectangle:
		c.Rect(-w/2, -h/2, w, h)
		return fillAndStroke(c, n)
	case ShapeEllipse:
		c.Ellipse(0, 0, w/2, h/2)
		return fillAndStroke(c, n)
	case ShapeImage:
		img := frameImage(n, images)
		if img == nil {
			return nil
		}
		return c.DrawImage(img, -w/2, -h/2, w, h)
	case ShapeText:
		if !n.HasText {
			return nil
		}
		var maxWidth float64
		if n.Text.StrictWidth {
			maxWidth = w
		}
		return c.FillText(n.Text, h, 0, 0, maxWidth)
	}
	return nil
}

func fillAndStroke(c Canvas, n *RenderNode) error {
	var err error
	if n.Fill == MaterialColor || n.Fill == MaterialGradient {
		err = c.Fill(n.Paint())
	}
	if n.BorderColor != "" && n.BorderColor != "none" && n.BorderWidth > 0 {
		err = errors.Join(err, c.Stroke(n.BorderColor, n.BorderWidth))
	}
	return err
}

// frameImage returns the bitmap for the node's current frame, or nil when the
// frame is out of range or its handle is not loaded yet.
func frameImage(n *RenderNode, images ImageLookup) image.Image {
	if n.Fill != MaterialImages || n.Frame < 0 || n.Frame >= len(n.Images) {
		return nil
	}
	src := n.Images[n.Frame]
	if src.Handle == "" {
		return src.Inline
	}
	if images == nil {
		return nil
	}
	img, ok := images.Lookup(src.Handle)
	if !ok {
		return nil
	}
	return img
}
