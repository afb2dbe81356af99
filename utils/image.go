package utils

import (
	"bytes"
	"image"
	_ "image/gif" // Register decoders for the formats clinicians upload.
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// DecodeAndResize Decode image bytes and scale them to a size x size square,
// the fixed input resolution of the classifier.
func DecodeAndResize(data []byte, size int) (image.Image, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}
