// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package raster

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/request"
	"github.com/gogpu/request/internal/objects"
)

// Format is an image file format for board export.
type Format uint8

const (
	FormatPNG Format = iota
	FormatBMP
	FormatTIFF
)

var formatNames = [...]string{
	FormatPNG:  "png",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
}

// String returns the string representation of a Format.
func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "unknown"
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	}
	return 0, fmt.Errorf("raster: unsupported image extension %q", filepath.Ext(path))
}

// Boards returns the IDs of live boards in creation order.
func (b *Backend) Boards() []request.ID {
	return b.objects.IDs(request.ObjectBoard)
}

// Image returns a snapshot of the board's pixels.
func (b *Backend) Image(id request.ID) (image.Image, error) {
	bd, err := objects.Get[*board](b.objects, id, request.ObjectBoard)
	if err != nil {
		return nil, err
	}
	return bd.ctx.Image(), nil
}

// Encode writes the board's pixels to w in the given format.
func (b *Backend) Encode(id request.ID, w io.Writer, format Format) error {
	bd, err := objects.Get[*board](b.objects, id, request.ObjectBoard)
	if err != nil {
		return err
	}
	switch format {
	case FormatPNG:
		return bd.ctx.EncodePNG(w)
	case FormatBMP:
		return bmp.Encode(w, bd.ctx.Image())
	case FormatTIFF:
		return tiff.Encode(w, bd.ctx.Image(), &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("raster: unsupported format %s", format)
}

// Export writes the board to path, choosing the format from the extension
// (.png, .bmp, .tif or .tiff).
func (b *Backend) Export(id request.ID, path string) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	// Resolve the board before creating the file.
	if _, err := objects.Get[*board](b.objects, id, request.ObjectBoard); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := b.Encode(id, f, format); err != nil {
		return fmt.Errorf("raster: export %s: %w", path, err)
	}
	b.logger.Info("raster: board exported", "id", id.String(), "path", path, "format", format.String())
	return nil
}
