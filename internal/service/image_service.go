package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"inkwell/internal/config"
	"inkwell/internal/validation"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	DefaultMediaRoot         = "media"
	DefaultImageMaxDimension = 1920
	WebPQuality              = 82
	postImageDir             = "posts"
)

// ImageStore persists validated post images under paths relative to the media root.
type ImageStore interface {
	Save(ctx context.Context, img *validation.DecodedImage) (StoredImage, error)
	Remove(ctx context.Context, path string) error
}

// StoredImage is where Save put an image. Created is false when an identical file was already there.
type StoredImage struct {
	Path    string
	Created bool
}

// ImageService downsizes post images, re-encodes them as WebP and writes them under the media root.
type ImageService struct {
	mediaRoot    string
	maxDimension int
}

func NewImageService(cfg *config.Config) *ImageService {
	mediaRoot := DefaultMediaRoot
	maxDimension := DefaultImageMaxDimension

	if cfg != nil {
		if cfg.MediaRoot != "" {
			mediaRoot = cfg.MediaRoot
		}
		if cfg.ImageMaxDimension > 0 {
			maxDimension = cfg.ImageMaxDimension
		}
	}

	return &ImageService{
		mediaRoot:    mediaRoot,
		maxDimension: maxDimension,
	}
}

// MediaRoot is the directory served under /media.
func (s *ImageService) MediaRoot() string {
	return s.mediaRoot
}

// Save stores img as posts/<sha256>.webp. Identical output maps to the same file.
func (s *ImageService) Save(ctx context.Context, img *validation.DecodedImage) (StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}

	resized := resizeToFit(img.Image, s.maxDimension, s.maxDimension)
	encoded, err := encodeWebP(toRGBA(resized), WebPQuality)
	if err != nil {
		return StoredImage{}, err
	}

	sum := sha256.Sum256(encoded)
	rel := filepath.ToSlash(filepath.Join(postImageDir, hex.EncodeToString(sum[:])+".webp"))
	abs := filepath.Join(s.mediaRoot, filepath.FromSlash(rel))

	if _, err := os.Stat(abs); err == nil {
		return StoredImage{Path: rel}, nil
	}
	if err := writeBytesToFile(abs, encoded); err != nil {
		return StoredImage{}, err
	}
	return StoredImage{Path: rel, Created: true}, nil
}

// Remove deletes a stored post image. A missing file is not an error.
func (s *ImageService) Remove(_ context.Context, path string) error {
	rel := filepath.Clean(filepath.FromSlash(path))
	if filepath.Dir(rel) != postImageDir {
		return fmt.Errorf("refusing to remove %q outside %s/", path, postImageDir)
	}
	err := os.Remove(filepath.Join(s.mediaRoot, rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

// toRGBA flattens paletted and gray sources so the encoder sees one pixel layout.
func toRGBA(src image.Image) *image.RGBA {
	if rgba, ok := src.(*image.RGBA); ok {
		return rgba
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
