package imgur

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/pkg/wallpaper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockImgurTransport allows mocking HTTP responses
type mockImgurTransport struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockImgurTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func TestImgurProvider_ParseURL(t *testing.T) {
	p := NewImgurProvider(config.Config{}, nil)

	tests := []struct {
		name    string
		webURL  string
		want    string
		wantErr bool
	}{
		{
			name:   "Album",
			webURL: "https://imgur.com/a/AbCd123",
			want:   "https://api.imgur.com/3/a/AbCd123.json",
		},
		{
			name:   "Album with trailing slash",
			webURL: "https://imgur.com/a/AbCd123/",
			want:   "https://api.imgur.com/3/a/AbCd123.json",
		},
		{
			name:   "Gallery with query",
			webURL: "https://imgur.com/gallery/XyZ987?utm_source=share",
			want:   "https://api.imgur.com/3/gallery/XyZ987.json",
		},
		{
			name:   "Already resolved",
			webURL: "https://api.imgur.com/3/a/AbCd123.json",
			want:   "https://api.imgur.com/3/a/AbCd123.json",
		},
		{
			name:    "Single segment",
			webURL:  "https://imgur.com/AbCd123",
			wantErr: true,
		},
		{
			name:    "No path",
			webURL:  "https://imgur.com",
			wantErr: true,
		},
		{
			name:    "Empty",
			webURL:  "  ",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseURL(tt.webURL)
			if tt.wantErr {
				assert.ErrorIs(t, err, wallpaper.ErrLinkMalformed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImgurProvider_ParseURLIsIdempotent(t *testing.T) {
	p := NewImgurProvider(config.Config{}, nil)
	links := []string{
		"https://imgur.com/a/AbCd123",
		"https://imgur.com/gallery/XyZ987/",
		"http://m.imgur.com/album/q1w2e3",
	}
	for _, link := range links {
		once, err := p.ParseURL(link)
		require.NoError(t, err)
		twice, err := p.ParseURL(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "resolving %s twice", link)
	}
}

func TestImgurProvider_FetchLinks(t *testing.T) {
	tests := []struct {
		name         string
		mockResponse string
		mockStatus   int
		want         []string
		wantKind     wallpaper.ErrorKind
	}{
		{
			name:         "Two Images",
			mockResponse: `{"data":{"images":[{"link":"https://i.imgur.com/1.jpg"},{"link":"https://i.imgur.com/2.jpg"}]}}`,
			mockStatus:   http.StatusOK,
			want:         []string{"https://i.imgur.com/1.jpg", "https://i.imgur.com/2.jpg"},
		},
		{
			name: "Order Preserved",
			mockResponse: `{"data":{"id":"x","images":[
				{"id":"c","link":"https://i.imgur.com/c.png"},
				{"id":"a","link":"https://i.imgur.com/a.png"},
				{"id":"b","link":"https://i.imgur.com/b.png"}
			]},"success":true,"status":200}`,
			mockStatus: http.StatusOK,
			want:       []string{"https://i.imgur.com/c.png", "https://i.imgur.com/a.png", "https://i.imgur.com/b.png"},
		},
		{
			name:         "Empty Gallery",
			mockResponse: `{"data":{"images":[]}}`,
			mockStatus:   http.StatusOK,
			want:         nil,
		},
		{
			name:         "Missing Images",
			mockResponse: `{"data":{"error":"nope"}}`,
			mockStatus:   http.StatusOK,
			wantKind:     wallpaper.KindLinkMalformed,
		},
		{
			name:         "Missing Link Field",
			mockResponse: `{"data":{"images":[{"id":"1"}]}}`,
			mockStatus:   http.StatusOK,
			wantKind:     wallpaper.KindLinkMalformed,
		},
		{
			name:         "Not JSON",
			mockResponse: `<html></html>`,
			mockStatus:   http.StatusOK,
			wantKind:     wallpaper.KindLinkMalformed,
		},
		{
			name:         "Gallery Not Found",
			mockResponse: `{"data":{"error":"Unable to find album"},"success":false,"status":404}`,
			mockStatus:   http.StatusNotFound,
			wantKind:     wallpaper.KindLinkMalformed,
		},
		{
			name:         "Server Error",
			mockResponse: `{"data":{"error":"Over capacity"},"success":false,"status":503}`,
			mockStatus:   http.StatusServiceUnavailable,
			wantKind:     wallpaper.KindConnectivity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Client-ID XYZ", r.Header.Get("Authorization"))
				assert.Equal(t, http.MethodGet, r.Method)
				w.WriteHeader(tt.mockStatus)
				_, _ = w.Write([]byte(tt.mockResponse))
			}))
			defer ts.Close()

			cfg := config.New("https://imgur.com/a/AbCd123", "XYZ")
			p := NewImgurProvider(cfg, ts.Client())

			seq, err := p.FetchLinks(context.Background(), ts.URL+"/3/a/AbCd123.json")
			if tt.wantKind != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, wallpaper.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, slices.Collect(seq))
		})
	}
}

func TestImgurProvider_FetchLinksMalformedNamesConfiguredLink(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer ts.Close()

	p := NewImgurProvider(config.New("https://imgur.com/a/AbCd123", "XYZ"), ts.Client())
	apiURL := ts.URL + "/3/a/AbCd123.json"
	_, err := p.FetchLinks(context.Background(), apiURL)

	var werr *wallpaper.Error
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "https://imgur.com/a/AbCd123", werr.Link)
	assert.Equal(t, apiURL, werr.Canonical)
}

func TestImgurProvider_FetchLinksIsNotRestartable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"images":[{"link":"https://i.imgur.com/1.jpg"},{"link":"https://i.imgur.com/2.jpg"},{"link":"https://i.imgur.com/3.jpg"}]}}`))
	}))
	defer ts.Close()

	p := NewImgurProvider(config.Config{}, ts.Client())
	p.SetTokenForTesting("XYZ")
	seq, err := p.FetchLinks(context.Background(), ts.URL)
	require.NoError(t, err)

	for link := range seq {
		assert.Equal(t, "https://i.imgur.com/1.jpg", link)
		break
	}
	assert.Equal(t, []string{"https://i.imgur.com/2.jpg", "https://i.imgur.com/3.jpg"}, slices.Collect(seq))
	assert.Empty(t, slices.Collect(seq))
}

func TestImgurProvider_FetchLinksErrors(t *testing.T) {
	t.Run("Missing Client ID", func(t *testing.T) {
		p := NewImgurProvider(config.New("https://imgur.com/a/AbCd123", ""), nil)
		_, err := p.FetchLinks(context.Background(), "https://api.imgur.com/3/a/AbCd123.json")
		assert.ErrorIs(t, err, wallpaper.ErrConfigurationMissing)

		var werr *wallpaper.Error
		require.True(t, errors.As(err, &werr))
		assert.Equal(t, []string{config.FieldClientID}, werr.Fields)
	})

	t.Run("Network Failure", func(t *testing.T) {
		client := &http.Client{Transport: &mockImgurTransport{
			RoundTripFunc: func(req *http.Request) (*http.Response, error) {
				return nil, errors.New("connection refused")
			},
		}}
		p := NewImgurProvider(config.New("https://imgur.com/a/AbCd123", "XYZ"), client)
		_, err := p.FetchLinks(context.Background(), "https://api.imgur.com/3/a/AbCd123.json")
		assert.ErrorIs(t, err, wallpaper.ErrConnectivity)
	})
}

func TestImgurProviderIsRegistered(t *testing.T) {
	assert.Contains(t, wallpaper.GetRegisteredProviders(), imgurServiceName)

	p, err := wallpaper.NewProvider(wallpaper.DefaultProviderName, config.Config{}, http.DefaultClient)
	require.NoError(t, err)
	assert.Equal(t, "Imgur", p.Name())
	assert.Equal(t, ImgurHomeURL, p.HomeURL())
}
