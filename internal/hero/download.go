package hero

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// DefaultSizeWarnBytes is the original size above which a warning is attached.
const DefaultSizeWarnBytes = 5 * 1024 * 1024

const sizeWarning = "Input image exceeds 5MB; optimization may be slow."

// Download describes an original stored in the cache.
type Download struct {
	DriveFileID string
	SourceURL   string
	LocalPath   string
	FetchedAt   time.Time
	Checksum    string
	SizeBytes   int64
	Warning     string
}

// Fetcher retrieves the bytes of a Drive file.
type Fetcher interface {
	Fetch(ctx context.Context, fileID string) (data []byte, contentType string, err error)
}

// Downloader stores Drive originals at {cacheRoot}/{fileId}/original{ext}.
type Downloader struct {
	CacheRoot     string
	Fetcher       Fetcher
	SizeWarnBytes int64
	Now           func() time.Time
}

// Download fetches driveURL and writes it into the cache. SourceURL records
// the Drive API media URL the bytes were served from.
func (d *Downloader) Download(ctx context.Context, driveURL string) (*Download, error) {
	fileID, err := ExtractDriveFileID(driveURL)
	if err != nil {
		return nil, err
	}
	data, contentType, err := d.Fetcher.Fetch(ctx, fileID)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(d.CacheRoot, fileID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to create hero cache directory").
			WithContext("path", dir).
			Build()
	}
	localPath := filepath.Join(dir, "original"+ExtensionFromContentType(contentType))
	if err := os.WriteFile(localPath, data, 0o600); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to write hero original").
			WithContext("path", localPath).
			Build()
	}

	sum := sha256.Sum256(data)
	limit := d.SizeWarnBytes
	if limit <= 0 {
		limit = DefaultSizeWarnBytes
	}
	now := time.Now
	if d.Now != nil {
		now = d.Now
	}
	dl := &Download{
		DriveFileID: fileID,
		SourceURL:   TransformDriveURL(driveURL),
		LocalPath:   localPath,
		FetchedAt:   now().UTC(),
		Checksum:    hex.EncodeToString(sum[:]),
		SizeBytes:   int64(len(data)),
	}
	if dl.SizeBytes > limit {
		dl.Warning = sizeWarning
	}
	return dl, nil
}

// ExtensionFromContentType maps an image MIME type onto a file extension.
func ExtensionFromContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "image/jpeg"):
		return ".jpg"
	case strings.Contains(contentType, "image/png"):
		return ".png"
	case strings.Contains(contentType, "image/webp"):
		return ".webp"
	case strings.Contains(contentType, "image/avif"):
		return ".avif"
	default:
		return ".bin"
	}
}

// DriveFetcher downloads file media through the Drive v3 API.
type DriveFetcher struct {
	svc *drive.Service
}

// NewDriveFetcher creates a fetcher; apiOpts carry credentials.
func NewDriveFetcher(ctx context.Context, apiOpts ...option.ClientOption) (*DriveFetcher, error) {
	svc, err := drive.NewService(ctx, apiOpts...)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDrive, "failed to create drive service").Build()
	}
	return &DriveFetcher{svc: svc}, nil
}

func (f *DriveFetcher) Fetch(ctx context.Context, fileID string) ([]byte, string, error) {
	resp, err := f.svc.Files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		status := 0
		if apiErr, ok := err.(*googleapi.Error); ok {
			status = apiErr.Code
		}
		return nil, "", errors.DriveError(fmt.Sprintf("Failed to download Drive image (%d)", status)).
			WithCause(err).
			WithContext("drive_file_id", fileID).
			Build()
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", errors.NetworkError("failed to read Drive image body").
			WithCause(err).
			WithContext("drive_file_id", fileID).
			Build()
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return data, contentType, nil
}

// MockFetcher returns a small generated JPEG so offline runs exercise the full pipeline.
type MockFetcher struct{}

func (MockFetcher) Fetch(ctx context.Context, fileID string) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	img := image.NewRGBA(image.Rect(0, 0, 160, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 160; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y * 2), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "image/jpeg", nil
}
