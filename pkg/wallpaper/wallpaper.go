package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/pkg/provider"
	"github.com/dixieflatline76/wpsetter/util"
	"github.com/dixieflatline76/wpsetter/util/log"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Options tunes a Setter. The zero value is usable.
type Options struct {
	// ProviderName selects a registered gallery provider. Defaults to DefaultProviderName.
	ProviderName string
	// HTTPClient is used for the listing request and image downloads. Defaults to NewHTTPClient().
	HTTPClient *http.Client
	// WallpaperPath is the wallpaper file. Defaults to config.WallpaperFileName in the working directory.
	WallpaperPath string
	// SnapshotPath is the cache snapshot file. Defaults to config.CacheStateFile in the working directory.
	SnapshotPath string
	// Convert re-encodes every downloaded image as a real BMP.
	Convert bool
	// Fit crops and scales every downloaded image to the primary desktop.
	Fit bool
	// Rand is the picker's source. Defaults to a randomly seeded PCG.
	Rand rand.Source
}

// Setter ties a gallery provider to the wallpaper file, the OS applier and the cache.
type Setter struct {
	cfg           config.Config
	provider      provider.GalleryProvider
	downloader    *Downloader
	picker        *Picker
	os            OS
	imgProcessor  ImageProcessor
	store         *SnapshotStore
	wallpaperPath string
	convert       bool
	fit           bool

	loopActive *util.SafeFlag
	cacheLimit *rate.Limiter
	cacheGroup singleflight.Group
	cacheMu    sync.Mutex
	cacheRuns  map[string]*cacheRun
}

// NewSetter creates a Setter for cfg. The configuration is not validated here;
// missing values are reported by the first operation that needs them.
func NewSetter(cfg config.Config, opts Options) (*Setter, error) {
	return newSetter(cfg, opts, getOS())
}

func newSetter(cfg config.Config, opts Options, osImpl OS) (*Setter, error) {
	if opts.ProviderName == "" {
		opts.ProviderName = DefaultProviderName
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = NewHTTPClient()
	}

	wallpaperPath, err := absOrDefault(opts.WallpaperPath, config.WallpaperFileName)
	if err != nil {
		return nil, err
	}
	snapshotPath, err := absOrDefault(opts.SnapshotPath, config.CacheStateFile)
	if err != nil {
		return nil, err
	}

	p, err := NewProvider(opts.ProviderName, cfg, opts.HTTPClient)
	if err != nil {
		return nil, err
	}

	return &Setter{
		cfg:           cfg,
		provider:      p,
		downloader:    NewDownloader(opts.HTTPClient),
		picker:        NewPicker(opts.Rand),
		os:            osImpl,
		imgProcessor:  newSmartImageProcessor(osImpl),
		store:         NewSnapshotStore(snapshotPath),
		wallpaperPath: wallpaperPath,
		convert:       opts.Convert,
		fit:           opts.Fit,
		loopActive:    util.NewSafeFlag(false),
		cacheLimit:    rate.NewLimiter(rate.Limit(CacheDownloadRate), CacheDownloadBurst),
		cacheRuns:     make(map[string]*cacheRun),
	}, nil
}

func absOrDefault(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return abs, nil
}

// Config returns the configuration the Setter was created with.
func (s *Setter) Config() config.Config {
	return s.cfg
}

// WallpaperPath returns the absolute path of the wallpaper file.
func (s *Setter) WallpaperPath() string {
	return s.wallpaperPath
}

// Store returns the cache snapshot store.
func (s *Setter) Store() *SnapshotStore {
	return s.store
}

// ResolveLink returns the API form of the configured gallery link.
func (s *Setter) ResolveLink() (string, error) {
	if s.cfg.GalleryLink == "" {
		return "", &Error{Kind: KindConfigurationMissing, Fields: []string{config.FieldLink}}
	}
	return s.provider.ParseURL(s.cfg.GalleryLink)
}

// FetchLinks requests the gallery listing and returns its image links in order.
func (s *Setter) FetchLinks(ctx context.Context) (iter.Seq[string], error) {
	if !s.cfg.IsComplete() {
		return nil, &Error{Kind: KindConfigurationMissing, Fields: s.cfg.MissingFields()}
	}
	apiURL, err := s.ResolveLink()
	if err != nil {
		return nil, err
	}
	return s.provider.FetchLinks(ctx, apiURL)
}

// RandomImageURL fetches the gallery and picks one link from it.
func (s *Setter) RandomImageURL(ctx context.Context) (string, error) {
	links, err := s.FetchLinks(ctx)
	if err != nil {
		return "", err
	}
	link, err := s.picker.Pick(links)
	if err != nil {
		var werr *Error
		if errors.As(err, &werr) && werr.Link == "" {
			werr.Link = s.cfg.GalleryLink
		}
		return "", err
	}
	return link, nil
}

// WriteWallpaperFile downloads a random gallery image and replaces the wallpaper
// file with it. The previous file is left untouched if anything fails.
func (s *Setter) WriteWallpaperFile(ctx context.Context) (string, error) {
	imageURL, err := s.RandomImageURL(ctx)
	if err != nil {
		return "", err
	}
	if err := s.downloadTo(ctx, imageURL, s.wallpaperPath); err != nil {
		return "", err
	}
	log.Printf("Wallpaper file updated from %s", imageURL)
	return s.wallpaperPath, nil
}

// ApplyBackground sets the desktop background to path.
func (s *Setter) ApplyBackground(path string) error {
	return applyBackground(s.os, path)
}

// Cycle runs one live fetch-write-apply pass.
func (s *Setter) Cycle(ctx context.Context) error {
	path, err := s.WriteWallpaperFile(ctx)
	if err != nil {
		return err
	}
	return s.ApplyBackground(path)
}

// ApplyFromCache applies a random image listed in the cache snapshot. Entries
// whose files no longer exist are skipped.
func (s *Setter) ApplyFromCache(ctx context.Context) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}
	files, err := s.store.Load()
	if err != nil {
		return "", err
	}

	present := files[:0:0]
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return "", &Error{Kind: KindCacheUninitialized, Path: s.store.Path(), Err: errors.New("snapshot lists no existing files")}
	}

	path, err := s.picker.PickFrom(present)
	if err != nil {
		return "", err
	}
	if err := s.ApplyBackground(path); err != nil {
		return "", err
	}
	log.Printf("Wallpaper set from cache: %s", path)
	return path, nil
}

// downloadTo downloads imageURL, runs the optional conversions and writes the
// result to path atomically.
func (s *Setter) downloadTo(ctx context.Context, imageURL, path string) error {
	data, err := s.downloader.Download(ctx, imageURL)
	if err != nil {
		return err
	}
	data, err = s.processImage(ctx, data)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// processImage applies the Convert and Fit options.
func (s *Setter) processImage(ctx context.Context, data []byte) ([]byte, error) {
	if !s.convert && !s.fit {
		return data, nil
	}

	img, format, err := s.imgProcessor.DecodeImage(ctx, data)
	if err != nil {
		return nil, err
	}

	if s.fit {
		fitted, err := s.imgProcessor.FitImage(ctx, img)
		switch {
		case err == nil:
			img = fitted
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			log.Printf("Smart fit skipped: %v", err)
			if !s.convert {
				return data, nil
			}
		}
	}

	if s.convert {
		format = "bmp"
	}
	return s.imgProcessor.EncodeImage(ctx, img, format)
}
