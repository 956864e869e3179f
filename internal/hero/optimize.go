package hero

import (
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"

	// Registered decoders for originals.
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// DefaultWidths are the responsive widths generated per hero image.
var DefaultWidths = []int{640, 960, 1440, 1920}

// Optimizer resizes an original into JPEG renditions.
type Optimizer struct {
	Widths  []int
	Quality int
}

// URLPath is the public directory of a file's renditions.
func URLPath(fileID string) string {
	return "/img/hero/" + fileID + "/"
}

// OptimizedDir is the cache directory holding a file's renditions.
func OptimizedDir(cacheRoot, fileID string) string {
	return filepath.Join(cacheRoot, "optimized", fileID)
}

// targetWidths keeps widths not larger than the source and adds the source
// width once when any requested width would upscale.
func targetWidths(requested []int, srcWidth int) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, w := range requested {
		if w <= 0 {
			continue
		}
		if w > srcWidth {
			w = srcWidth
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	sort.Ints(out)
	return out
}

// Optimize decodes localPath and writes {fileId}-{w}.jpeg files under OptimizedDir.
func (o Optimizer) Optimize(localPath, fileID, cacheRoot string) ([]Output, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open hero original").
			WithContext("path", localPath).
			Build()
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryImage, "failed to decode hero original").
			WithContext("path", localPath).
			Build()
	}

	widths := o.Widths
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	quality := o.Quality
	if quality <= 0 {
		quality = 82
	}

	bounds := src.Bounds()
	outDir := OptimizedDir(cacheRoot, fileID)
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create optimized directory").
			WithContext("path", outDir).
			Build()
	}

	var outputs []Output
	for _, w := range targetWidths(widths, bounds.Dx()) {
		h := bounds.Dy() * w / bounds.Dx()
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

		name := fmt.Sprintf("%s-%d.jpeg", fileID, w)
		path := filepath.Join(outDir, name)
		size, err := writeJPEG(path, dst, quality)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, Output{
			Format:   "jpeg",
			Width:    w,
			Height:   h,
			Path:     URLPath(fileID) + name,
			File:     path,
			Filesize: size,
		})
	}
	if len(outputs) == 0 {
		return nil, errors.ImageError("image optimization produced no hero image outputs").
			WithContext("drive_file_id", fileID).
			Build()
	}
	return outputs, nil
}

func writeJPEG(path string, img image.Image, quality int) (int64, error) {
	out, err := os.Create(path)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to create rendition").
			WithContext("path", path).
			Build()
	}
	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: quality}); err != nil {
		_ = out.Close()
		return 0, errors.WrapError(err, errors.CategoryImage, "failed to encode rendition").
			WithContext("path", path).
			Build()
	}
	if err := out.Close(); err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to close rendition").
			WithContext("path", path).
			Build()
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat rendition").Build()
	}
	return info.Size(), nil
}
