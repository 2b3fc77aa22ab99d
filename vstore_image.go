package agp

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"io"

	"golang.org/x/image/bmp"
	ximage "golang.org/x/image/draw"
)

func init() {
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

// LoadImage decodes r into the store's CPU backing buffer and uploads it,
// resampling with golang.org/x/image/draw when the decoded image doesn't
// match the store's current texel dimensions. PNG/BMP decoders are
// registered via the stdlib image package and golang.org/x/image/bmp.
func (v *VStore) LoadImage(env *FENV, r io.Reader) error {
	img, _, err := image.Decode(r)
	if err != nil {
		return fmt.Errorf("agp: decode image: %w", err)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if v.state == TxOff {
		if err := v.Empty(env, w, h); err != nil {
			return err
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, v.w, v.h))
	if w == v.w && h == v.h {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		ximage.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, ximage.Src, nil)
	}

	v.backing = dst.Pix
	return v.Update(env, true)
}
