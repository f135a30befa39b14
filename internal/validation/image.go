package validation

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

// ErrNotAnImage is returned when upload bytes do not decode as a supported image.
var ErrNotAnImage = errors.New("not a supported image")

var supportedFormats = map[string]struct{}{
	"gif":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// ImageUpload is a raw file from a multipart form.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// DecodedImage is an upload that passed the structural check.
type DecodedImage struct {
	Filename string
	Format   string
	Image    image.Image
}

// DecodeImage checks that content is a GIF, PNG, JPEG or WebP image and decodes it.
func DecodeImage(upload ImageUpload) (*DecodedImage, error) {
	if len(upload.Content) == 0 {
		return nil, ErrNotAnImage
	}
	img, format, err := image.Decode(bytes.NewReader(upload.Content))
	if err != nil {
		return nil, ErrNotAnImage
	}
	if _, ok := supportedFormats[format]; !ok {
		return nil, ErrNotAnImage
	}
	return &DecodedImage{Filename: upload.Filename, Format: format, Image: img}, nil
}
