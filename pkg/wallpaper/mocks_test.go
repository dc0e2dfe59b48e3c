package wallpaper

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/pkg/provider"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// MockProvider is a GalleryProvider that serves a fixed list of links.
type MockProvider struct {
	links      []string
	err        error
	fetchCalls atomic.Int32
}

func (m *MockProvider) Name() string    { return "Mock" }
func (m *MockProvider) HomeURL() string { return "https://example.com" }

func (m *MockProvider) ParseURL(webURL string) (string, error) {
	if webURL == "bad" {
		return "", &Error{Kind: KindLinkMalformed, Link: webURL}
	}
	return strings.TrimSuffix(webURL, ".json") + ".json", nil
}

func (m *MockProvider) FetchLinks(ctx context.Context, apiURL string) (iter.Seq[string], error) {
	m.fetchCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return slices.Values(m.links), nil
}

// imageServer serves /img/<name> with size bytes, /png/<name> with png, and 404 otherwise.
type imageServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newImageServer(t *testing.T, size int, pngData []byte) *imageServer {
	t.Helper()
	s := &imageServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		switch {
		case strings.HasPrefix(r.URL.Path, "/img/"):
			body := make([]byte, size)
			copy(body, r.URL.Path)
			_, _ = w.Write(body)
		case strings.HasPrefix(r.URL.Path, "/png/"):
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pngData)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

// links returns n image URLs on the server.
func (s *imageServer) links(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s/img/%d.jpg", s.URL, i)
	}
	return out
}

// newTestSetter builds a Setter around mp and mockOS with all files under t.TempDir().
func newTestSetter(t *testing.T, mp *MockProvider, mockOS *MockOS, opts Options) *Setter {
	t.Helper()
	name := "Mock-" + t.Name()
	RegisterProvider(name, func(config.Config, *http.Client) provider.GalleryProvider { return mp })

	dir := t.TempDir()
	opts.ProviderName = name
	if opts.WallpaperPath == "" {
		opts.WallpaperPath = filepath.Join(dir, "wallpaper.bmp")
	}
	if opts.SnapshotPath == "" {
		opts.SnapshotPath = filepath.Join(dir, "wallpaper_cache.json")
	}
	if mockOS == nil {
		mockOS = new(MockOS)
	}

	s, err := newSetter(config.New("https://imgur.com/a/AbCd123", "XYZ"), opts, mockOS)
	require.NoError(t, err)
	s.cacheLimit = rate.NewLimiter(rate.Inf, 1)
	return s
}
