package hero

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

const testFileID = "1AbCdEfGhIjK"

func testDriveURL() string {
	return "https://drive.google.com/file/d/" + testFileID + "/view"
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubFetcher struct {
	data        []byte
	contentType string
	err         error
}

func (s stubFetcher) Fetch(context.Context, string) ([]byte, string, error) {
	return s.data, s.contentType, s.err
}

type recordingSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (r *recordingSink) PublishHeroLog(_ context.Context, e LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fixedClock() func() time.Time {
	ts := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestExtractDriveFileID(t *testing.T) {
	cases := map[string]string{
		"https://drive.google.com/file/d/1AbCdEfGhIjK/view?usp=sharing": "1AbCdEfGhIjK",
		"https://drive.google.com/uc?id=abc_DEF-123456":                 "abc_DEF-123456",
		"https://drive.google.com/open?id=ZZZZZZZZZZZZ":                 "ZZZZZZZZZZZZ",
	}
	for in, want := range cases {
		got, err := ExtractDriveFileID(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	for _, bad := range []string{"", "https://example.com/a.jpg", "https://drive.google.com/file/d/short/view"} {
		_, err := ExtractDriveFileID(bad)
		require.Error(t, err, bad)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	}
}

func TestTransformDriveURL(t *testing.T) {
	assert.Equal(t, DriveAPIFilesURL+testFileID+"?alt=media", TransformDriveURL(testDriveURL()))
	assert.Equal(t, "https://example.com/a.jpg", TransformDriveURL("https://example.com/a.jpg"))
}

func TestEnsureAltText(t *testing.T) {
	assert.Equal(t, AltText{JA: "展覧会", EN: "展覧会"}, EnsureAltText(nil, "展覧会"))
	assert.Equal(t, AltText{JA: "日本語", EN: "日本語"}, EnsureAltText(&AltText{JA: "日本語"}, "t"))
	assert.Equal(t, AltText{JA: "t", EN: "English"}, EnsureAltText(&AltText{EN: "English"}, "t"))
}

func TestExtensionFromContentType(t *testing.T) {
	assert.Equal(t, ".jpg", ExtensionFromContentType("image/jpeg"))
	assert.Equal(t, ".png", ExtensionFromContentType("image/png"))
	assert.Equal(t, ".webp", ExtensionFromContentType("image/webp"))
	assert.Equal(t, ".avif", ExtensionFromContentType("image/avif"))
	assert.Equal(t, ".bin", ExtensionFromContentType("application/octet-stream"))
}

func TestDownloaderWritesOriginalAndChecksum(t *testing.T) {
	root := t.TempDir()
	payload := []byte("not really an image")
	d := &Downloader{CacheRoot: root, Fetcher: stubFetcher{data: payload, contentType: "image/png"}, SizeWarnBytes: 4}

	dl, err := d.Download(context.Background(), testDriveURL())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, testFileID, "original.png"), dl.LocalPath)
	assert.Len(t, dl.Checksum, 64)
	assert.Equal(t, int64(len(payload)), dl.SizeBytes)
	assert.Equal(t, sizeWarning, dl.Warning)
	assert.Equal(t, DriveAPIFilesURL+testFileID+"?alt=media", dl.SourceURL)

	got, err := os.ReadFile(dl.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestTargetWidthsNeverUpscale(t *testing.T) {
	assert.Equal(t, []int{640, 960, 1440, 1920}, targetWidths(DefaultWidths, 4000))
	assert.Equal(t, []int{640, 960, 1200}, targetWidths(DefaultWidths, 1200))
	assert.Equal(t, []int{300}, targetWidths(DefaultWidths, 300))
}

func TestOptimizeWritesJPEGRenditions(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "original.png")
	require.NoError(t, os.WriteFile(src, pngBytes(t, 1000, 500), 0o600))

	outs, err := Optimizer{}.Optimize(src, testFileID, root)
	require.NoError(t, err)
	require.Len(t, outs, 3)

	assert.Equal(t, 640, outs[0].Width)
	assert.Equal(t, 320, outs[0].Height)
	assert.Equal(t, 1000, outs[2].Width)
	for _, o := range outs {
		assert.Equal(t, "jpeg", o.Format)
		assert.True(t, strings.HasPrefix(o.Path, "/img/hero/"+testFileID+"/"))
		assert.FileExists(t, o.File)
		assert.Positive(t, o.Filesize)
	}
}

func TestOptimizeRejectsUndecodableInput(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "original.bin")
	require.NoError(t, os.WriteFile(src, []byte("garbage"), 0o600))

	_, err := Optimizer{}.Optimize(src, testFileID, root)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryImage))
}

func TestResolveSuccessPersistsMetadata(t *testing.T) {
	root := t.TempDir()
	sink := &recordingSink{}
	r := NewResolver(root, MockFetcher{}, WithLogger(discardLogger()), WithSink(sink), WithClock(fixedClock()))

	asset := r.Resolve(context.Background(), Request{ExhibitionID: "ex-1", DriveURL: testDriveURL(), Title: "春の展示"})
	assert.Equal(t, StatusSuccess, asset.Status)
	assert.Equal(t, testFileID, asset.DriveFileID)
	assert.Equal(t, asset.OptimizedOutputs[0].Path, asset.Src)
	assert.Equal(t, AltText{JA: "春の展示", EN: "春の展示"}, asset.AltText)
	assert.False(t, asset.IsPlaceholder())
	assert.FileExists(t, filepath.Join(root, testFileID, metadataFilename))

	require.Len(t, sink.entries, 1)
	assert.Equal(t, LevelInfo, sink.entries[0].Level)
	assert.Equal(t, LogScope, sink.entries[0].Scope)
	assert.Equal(t, "ex-1", sink.entries[0].Details.ExhibitionID)
	assert.Equal(t, StatusSuccess, sink.entries[0].Details.Status)
}

func TestOversizedDownloadLogsOriginalSize(t *testing.T) {
	root := t.TempDir()
	sink := &recordingSink{}
	payload := pngBytes(t, 2000, 1000)
	r := NewResolver(root, stubFetcher{data: payload, contentType: "image/png"},
		WithLogger(discardLogger()), WithSink(sink), WithClock(fixedClock()), WithSizeWarnBytes(1))

	asset := r.Resolve(context.Background(), Request{ExhibitionID: "ex-1", DriveURL: testDriveURL(), Title: "大判"})
	require.Equal(t, StatusSuccess, asset.Status)
	assert.Equal(t, sizeWarning, asset.Warning)

	require.Len(t, sink.entries, 1)
	entry := sink.entries[0]
	assert.Equal(t, LevelWarn, entry.Level)
	assert.Equal(t, sizeWarning, entry.Message)
	assert.Equal(t, int64(len(payload)), entry.Details.SizeBytes)
}

func TestResolveFallsBackToCachedMetadata(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	first := NewResolver(root, MockFetcher{}, WithLogger(discardLogger()), WithClock(fixedClock()))
	fresh := first.Resolve(ctx, Request{DriveURL: testDriveURL(), Title: "t"})
	require.Equal(t, StatusSuccess, fresh.Status)

	sink := &recordingSink{}
	failing := NewResolver(root, stubFetcher{err: errors.DriveError("Failed to download Drive image (500)").Build()},
		WithLogger(discardLogger()), WithSink(sink), WithClock(fixedClock()))
	asset := failing.Resolve(ctx, Request{ExhibitionID: "ex-1", DriveURL: testDriveURL(), Title: "新しい"})

	assert.Equal(t, StatusFallback, asset.Status)
	assert.True(t, asset.Cache.FromCache)
	assert.False(t, asset.IsPlaceholder())
	assert.Equal(t, fresh.Src, asset.Src)
	assert.Equal(t, "新しい", asset.AltText.JA)
	assert.Contains(t, asset.Warning, "Falling back to cached hero image: Failed to download Drive image (500)")
	require.Len(t, sink.entries, 1)
	assert.Equal(t, LevelWarn, sink.entries[0].Level)
}

func TestResolvePlaceholderWhenNothingCached(t *testing.T) {
	sink := &recordingSink{}
	r := NewResolver(t.TempDir(), stubFetcher{err: errors.DriveError("boom").Build()},
		WithLogger(discardLogger()), WithSink(sink), WithPlaceholderURL("/img/ph.jpg"), WithClock(fixedClock()))

	asset := r.Resolve(context.Background(), Request{ExhibitionID: "ex-2", DriveURL: testDriveURL(), Title: "t"})
	assert.Equal(t, StatusFallback, asset.Status)
	assert.True(t, asset.IsPlaceholder())
	assert.Equal(t, "/img/ph.jpg", asset.Src)
	assert.Equal(t, strings.Repeat("0", 64), asset.Checksum)
	require.Len(t, asset.OptimizedOutputs, 1)
	assert.Equal(t, 1600, asset.OptimizedOutputs[0].Width)
	assert.Equal(t, 900, asset.OptimizedOutputs[0].Height)
	assert.Equal(t, "Fallback hero image used: boom", asset.Warning)
	require.Len(t, sink.entries, 1)
	assert.Equal(t, LevelError, sink.entries[0].Level)
}

func TestResolveInvalidURLUsesFallbackID(t *testing.T) {
	r := NewResolver(t.TempDir(), MockFetcher{}, WithLogger(discardLogger()))
	asset := r.Resolve(context.Background(), Request{DriveURL: "https://example.com/x.jpg", Title: "t"})
	assert.Equal(t, "fallback", asset.DriveFileID)
	assert.Equal(t, DefaultPlaceholderURL, asset.Src)
}

func TestCopyOutputs(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	r := NewResolver(root, MockFetcher{}, WithLogger(discardLogger()))
	asset := r.Resolve(context.Background(), Request{DriveURL: testDriveURL(), Title: "t"})
	require.NoError(t, CopyOutputs(asset, out))
	for _, o := range asset.OptimizedOutputs {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(strings.TrimPrefix(o.Path, "/"))))
	}

	ph := r.placeholder("", AltText{}, nil)
	require.NoError(t, CopyOutputs(ph, out))
}

func TestMetadataRoundTripKeepsCamelCase(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root, MockFetcher{}, WithLogger(discardLogger()))
	asset := r.Resolve(context.Background(), Request{DriveURL: testDriveURL(), Title: "t"})
	raw, err := os.ReadFile(filepath.Join(root, asset.DriveFileID, metadataFilename))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "driveFileId")
	assert.Contains(t, m, "optimizedOutputs")
}

func TestDriveFetcherDownloadsMedia(t *testing.T) {
	payload := pngBytes(t, 20, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/files/"+testFileID) || r.URL.Query().Get("alt") != "media" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f, err := NewDriveFetcher(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	data, ct, err := f.Fetch(context.Background(), testFileID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, payload, data)

	_, _, err = f.Fetch(context.Background(), "missing-file-id")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryDrive))
}
