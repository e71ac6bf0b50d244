package structs

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
)

// Downscale shrinks an image upload so its longest side is at most maxDim,
// re-encoding it as JPEG. Uploads that are not images, that cannot be
// decoded, or that already fit are returned unchanged with resized=false.
func (u *Upload) Downscale(maxDim int) (resized bool, err error) {
	if maxDim <= 0 || !strings.HasPrefix(u.MIME(), "image/") {
		return false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil {
		// Formats the stdlib cannot decode (webp, heic) go up as-is.
		return false, nil
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(u.Data))
	if err != nil {
		return false, fmt.Errorf("error decoding image: %w", err)
	}

	var resizedImg image.Image
	if cfg.Width >= cfg.Height {
		resizedImg = imaging.Resize(img, maxDim, 0, imaging.Lanczos)
	} else {
		resizedImg = imaging.Resize(img, 0, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, resizedImg, &jpeg.Options{Quality: 85})
	if err != nil {
		return false, fmt.Errorf("error encoding resized image: %w", err)
	}

	u.Data = buf.Bytes()
	u.ContentType = "image/jpeg"
	if ext := strings.LastIndex(u.Name, "."); ext > 0 {
		u.Name = u.Name[:ext] + ".jpg"
	}
	return true, nil
}
