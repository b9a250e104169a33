package texture

import (
	"fmt"
	"image"
)

// TGA image type constants.
const (
	tgaTruecolor    = 2  // uncompressed true-color
	tgaTruecolorRLE = 10 // RLE compressed true-color
)

// DecodeTGA decodes a true-color TGA file (types 2 and 10, 24 or 32
// bits per pixel) into an RGBA texture descriptor. Bottom-to-top files
// are flipped so row 0 is the top row.
func DecodeTGA(data []byte) (*Texture, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header truncated")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	descriptor := data[17]

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if imageType != tgaTruecolor && imageType != tgaTruecolorRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("tga: invalid dimensions %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: id field truncated")
	}
	src := data[offset:]
	perPixel := bpp / 8
	topToBottom := descriptor&0x20 != 0
	total := width * height

	pixels := make([]byte, total*4)
	// TGA stores BGR(A); pixels are laid out RGBA.
	put := func(i int, b, g, r, a byte) {
		y := i / width
		if !topToBottom {
			y = height - 1 - y
		}
		d := (y*width + i%width) * 4
		pixels[d] = r
		pixels[d+1] = g
		pixels[d+2] = b
		pixels[d+3] = a
	}

	if imageType == tgaTruecolor {
		if len(src) < total*perPixel {
			return nil, fmt.Errorf("tga: pixel data truncated")
		}
		for i := 0; i < total; i++ {
			o := i * perPixel
			a := byte(255)
			if perPixel == 4 {
				a = src[o+3]
			}
			put(i, src[o], src[o+1], src[o+2], a)
		}
	} else {
		i, o := 0, 0
		for i < total {
			if o >= len(src) {
				return nil, fmt.Errorf("tga: rle stream truncated")
			}
			packet := src[o]
			o++
			count := int(packet&0x7f) + 1

			if packet&0x80 != 0 {
				// Run: one pixel value repeated count times.
				if o+perPixel > len(src) {
					return nil, fmt.Errorf("tga: rle packet truncated")
				}
				b, g, r := src[o], src[o+1], src[o+2]
				a := byte(255)
				if perPixel == 4 {
					a = src[o+3]
				}
				o += perPixel
				for n := 0; n < count && i < total; n++ {
					put(i, b, g, r, a)
					i++
				}
			} else {
				// Literal: count individual pixels.
				for n := 0; n < count && i < total; n++ {
					if o+perPixel > len(src) {
						return nil, fmt.Errorf("tga: raw packet truncated")
					}
					a := byte(255)
					if perPixel == 4 {
						a = src[o+3]
					}
					put(i, src[o], src[o+1], src[o+2], a)
					o += perPixel
					i++
				}
			}
		}
	}

	t := NewTexture(int32(width), int32(height), RGBA)
	t.SetPixels(pixels)
	return t, nil
}

// FromImage converts a decoded image into an RGBA texture descriptor.
func FromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	pixels := make([]byte, w*h*4)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			pixels[i] = byte(r >> 8)
			pixels[i+1] = byte(g >> 8)
			pixels[i+2] = byte(b >> 8)
			pixels[i+3] = byte(a >> 8)
			i += 4
		}
	}

	t := NewTexture(int32(w), int32(h), RGBA)
	t.SetPixels(pixels)
	return t
}
