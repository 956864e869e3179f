package hero

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
	"git.home.luguber.info/inful/exhibitpal/internal/logfields"
	"git.home.luguber.info/inful/exhibitpal/internal/metrics"
)

const metadataFilename = "metadata.json"

// DefaultPlaceholderURL is served when neither a fresh nor a cached image exists.
const DefaultPlaceholderURL = "/img/placeholders/hero-default.jpg"

// Request identifies the hero image of one exhibition.
type Request struct {
	ExhibitionID string
	DriveURL     string
	Title        string
	AltText      *AltText
}

// Resolver turns Drive links into optimized, cached hero assets.
type Resolver struct {
	CacheRoot      string
	PlaceholderURL string
	Downloader     *Downloader
	Optimizer      Optimizer
	Logger         *slog.Logger
	Recorder       metrics.Recorder
	Sink           LogSink
	Now            func() time.Time
}

// NewResolver wires a resolver around fetcher with defaults for unset fields.
func NewResolver(cacheRoot string, fetcher Fetcher, opts ...Option) *Resolver {
	r := &Resolver{
		CacheRoot:      cacheRoot,
		PlaceholderURL: DefaultPlaceholderURL,
		Optimizer:      Optimizer{Widths: DefaultWidths},
		Logger:         slog.Default(),
		Recorder:       metrics.NoopRecorder{},
		Now:            time.Now,
	}
	r.Downloader = &Downloader{CacheRoot: cacheRoot, Fetcher: fetcher, SizeWarnBytes: DefaultSizeWarnBytes}
	for _, opt := range opts {
		opt(r)
	}
	r.Downloader.Now = r.Now
	return r
}

// Option customizes a Resolver.
type Option func(*Resolver)

func WithPlaceholderURL(u string) Option {
	return func(r *Resolver) {
		if strings.TrimSpace(u) != "" {
			r.PlaceholderURL = u
		}
	}
}

func WithWidths(widths []int) Option {
	return func(r *Resolver) {
		if len(widths) > 0 {
			r.Optimizer.Widths = widths
		}
	}
}

func WithSizeWarnBytes(n int64) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.Downloader.SizeWarnBytes = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.Logger = l
		}
	}
}

func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Resolver) {
		if rec != nil {
			r.Recorder = rec
		}
	}
}

func WithSink(s LogSink) Option {
	return func(r *Resolver) { r.Sink = s }
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		if now != nil {
			r.Now = now
		}
	}
}

// BuildAsset downloads and optimizes the image without any fallback.
func (r *Resolver) BuildAsset(ctx context.Context, req Request) (Asset, error) {
	start := r.Now()
	alt := EnsureAltText(req.AltText, req.Title)

	dl, err := r.Downloader.Download(ctx, req.DriveURL)
	if err != nil {
		return Asset{}, err
	}
	outputs, err := r.Optimizer.Optimize(dl.LocalPath, dl.DriveFileID, r.CacheRoot)
	if err != nil {
		return Asset{}, err
	}

	asset := Asset{
		DriveFileID:      dl.DriveFileID,
		SourceURL:        dl.SourceURL,
		LocalPath:        dl.LocalPath,
		OptimizedOutputs: outputs,
		FetchedAt:        dl.FetchedAt,
		Checksum:         dl.Checksum,
		Status:           StatusSuccess,
		Warning:          dl.Warning,
		AltText:          alt,
		Cache:            CacheInfo{LocalPath: dl.LocalPath},
		Src:              primarySource(outputs, dl.SourceURL),
	}

	level, message := LevelInfo, "Hero image processed"
	if asset.Warning != "" {
		level, message = LevelWarn, asset.Warning
	}
	elapsed := r.Now().Sub(start)
	r.emit(ctx, NewLogEntry(level, message, LogDetails{
		ExhibitionID: req.ExhibitionID,
		DriveFileID:  asset.DriveFileID,
		DurationMS:   elapsed.Milliseconds(),
		SizeBytes:    dl.SizeBytes,
		Status:       asset.Status,
	}, r.Now().UTC()))
	r.Recorder.ObserveHeroImage(StatusSuccess, elapsed)
	return asset, nil
}

// Resolve never fails: it returns a fresh asset, the cached asset, or a placeholder.
func (r *Resolver) Resolve(ctx context.Context, req Request) Asset {
	start := r.Now()
	alt := EnsureAltText(req.AltText, req.Title)

	fileID, err := ExtractDriveFileID(req.DriveURL)
	if err == nil {
		var asset Asset
		asset, err = r.BuildAsset(ctx, req)
		if err == nil {
			if werr := r.writeMetadata(asset); werr != nil {
				r.Logger.WarnContext(ctx, "Failed to persist hero metadata",
					logfields.Scope(LogScope),
					logfields.DriveFileID(asset.DriveFileID),
					logfields.Error(werr))
			}
			return asset
		}
	}

	if fileID != "" {
		if cached, ok := r.readMetadata(fileID); ok {
			message := "Falling back to cached hero image: " + errorMessage(err)
			cached.Status = StatusFallback
			cached.Warning = message
			cached.AltText = alt
			cached.Cache.FromCache = true
			var size int64
			if len(cached.OptimizedOutputs) > 0 {
				size = cached.OptimizedOutputs[0].Filesize
			}
			r.emit(ctx, NewLogEntry(LevelWarn, message, LogDetails{
				ExhibitionID: req.ExhibitionID,
				DriveFileID:  cached.DriveFileID,
				SizeBytes:    size,
				Status:       StatusFallback,
			}, r.Now().UTC()))
			r.Recorder.ObserveHeroImage("cached", r.Now().Sub(start))
			return cached
		}
	}

	placeholder := r.placeholder(fileID, alt, err)
	r.emit(ctx, NewLogEntry(LevelError, placeholder.Warning, LogDetails{
		ExhibitionID: req.ExhibitionID,
		DriveFileID:  placeholder.DriveFileID,
		Status:       StatusFallback,
	}, r.Now().UTC()))
	r.Recorder.ObserveHeroImage("placeholder", r.Now().Sub(start))
	return placeholder
}

func (r *Resolver) placeholder(fileID string, alt AltText, cause error) Asset {
	if fileID == "" {
		fileID = "fallback"
	}
	u := r.PlaceholderURL
	return Asset{
		DriveFileID: fileID,
		SourceURL:   u,
		OptimizedOutputs: []Output{{
			Format: "jpeg",
			Width:  1600,
			Height: 900,
			Path:   u,
		}},
		FetchedAt: r.Now().UTC(),
		Checksum:  strings.Repeat("0", 64),
		Status:    StatusFallback,
		Warning:   "Fallback hero image used: " + errorMessage(cause),
		AltText:   alt,
		Src:       u,
	}
}

func (r *Resolver) emit(ctx context.Context, entry LogEntry) {
	Emit(ctx, r.Logger, entry)
	if r.Sink == nil {
		return
	}
	if err := r.Sink.PublishHeroLog(ctx, entry); err != nil {
		r.Logger.DebugContext(ctx, "hero log publish failed", logfields.Error(err))
	}
}

func (r *Resolver) metadataPath(fileID string) string {
	return filepath.Join(r.CacheRoot, fileID, metadataFilename)
}

func (r *Resolver) writeMetadata(asset Asset) error {
	path := r.metadataPath(asset.DriveFileID)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create metadata directory").Build()
	}
	data, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode hero metadata").Build()
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write hero metadata").
			WithContext("path", path).
			Build()
	}
	return nil
}

func (r *Resolver) readMetadata(fileID string) (Asset, bool) {
	data, err := os.ReadFile(r.metadataPath(fileID))
	if err != nil {
		return Asset{}, false
	}
	var asset Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return Asset{}, false
	}
	return asset, true
}

func errorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	if ce, ok := errors.AsClassified(err); ok {
		if ce.Cause() != nil {
			return ce.Message() + ": " + ce.Cause().Error()
		}
		return ce.Message()
	}
	return err.Error()
}

// CopyOutputs copies the optimized renditions of asset into {outputDir}/img/hero/{fileId}/.
// Placeholder assets have no local files and are skipped.
func CopyOutputs(asset Asset, outputDir string) error {
	for _, out := range asset.OptimizedOutputs {
		if out.File == "" {
			continue
		}
		dst := filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(out.Path, "/")))
		if err := copyFile(out.File, dst); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to open hero rendition").
			WithContext("path", src).
			Build()
	}
	defer in.Close()
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create hero output directory").
			WithContext("path", dst).
			Build()
	}
	out, err := os.Create(dst)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create hero output").
			WithContext("path", dst).
			Build()
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy hero rendition").
			WithContext("path", dst).
			Build()
	}
	return out.Close()
}
