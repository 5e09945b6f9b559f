package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// Covers are shrunk to fit this box; smaller images are never upscaled.
const (
	maxCoverWidth  = 800
	maxCoverHeight = 1200
	jpegQuality    = 82
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func allowedImage(mimeType string) bool { return imageTypes[mimeType] }

type optimized struct {
	data        []byte
	contentType string
	ext         string
	resized     bool
}

func optimizeImage(data []byte, mimeType string) (optimized, error) {
	if mimeType == "image/gif" {
		return optimizeGIF(data)
	}

	var (
		img image.Image
		err error
	)
	switch mimeType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	case "image/webp":
		img, err = webp.Decode(bytes.NewReader(data))
	default:
		return optimized{}, fmt.Errorf("unsupported type %s", mimeType)
	}
	if err != nil {
		return optimized{}, fmt.Errorf("decode %s: %w", mimeType, err)
	}

	img, resized := fitCover(img)

	var buf bytes.Buffer
	out := optimized{resized: resized}
	switch mimeType {
	case "image/png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
		out.contentType, out.ext = "image/png", ".png"
	default:
		// no webp encoder available; webp is re-encoded as jpeg
		err = jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: jpegQuality})
		out.contentType, out.ext = "image/jpeg", ".jpg"
	}
	if err != nil {
		return optimized{}, fmt.Errorf("encode: %w", err)
	}
	out.data = buf.Bytes()
	return out, nil
}

// optimizeGIF passes small GIFs through untouched so animation survives.
// Oversized ones are reduced to their first frame.
func optimizeGIF(data []byte) (optimized, error) {
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return optimized{}, fmt.Errorf("decode image/gif: %w", err)
	}
	out := optimized{contentType: "image/gif", ext: ".gif"}
	if _, _, ok := fitSize(cfg.Width, cfg.Height); !ok {
		out.data = data
		return out, nil
	}

	img, err := gif.Decode(bytes.NewReader(data))
	if err != nil {
		return optimized{}, fmt.Errorf("decode image/gif: %w", err)
	}
	img, out.resized = fitCover(img)
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		return optimized{}, fmt.Errorf("encode: %w", err)
	}
	out.data = buf.Bytes()
	return out, nil
}

// fitSize returns the target size for w x h and whether a resize is needed.
func fitSize(w, h int) (int, int, bool) {
	if w <= maxCoverWidth && h <= maxCoverHeight {
		return w, h, false
	}
	scale := min(float64(maxCoverWidth)/float64(w), float64(maxCoverHeight)/float64(h))
	nw := max(1, int(float64(w)*scale+0.5))
	nh := max(1, int(float64(h)*scale+0.5))
	return nw, nh, true
}

func fitCover(src image.Image) (image.Image, bool) {
	b := src.Bounds()
	nw, nh, ok := fitSize(b.Dx(), b.Dy())
	if !ok {
		return src, false
	}
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, true
}

// flatten composites transparent pixels onto white before jpeg encoding.
func flatten(src image.Image) image.Image {
	if o, ok := src.(interface{ Opaque() bool }); !ok || o.Opaque() {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, src, b.Min, draw.Over)
	return dst
}
