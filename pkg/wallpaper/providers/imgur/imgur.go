package imgur

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/url"
	"strings"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/pkg/provider"
	"github.com/dixieflatline76/wpsetter/pkg/wallpaper"
	"github.com/dixieflatline76/wpsetter/util/log"
	"golang.org/x/oauth2"
)

// ImgurProvider implements GalleryProvider for Imgur albums and galleries.
type ImgurProvider struct {
	cfg        config.Config
	httpClient *http.Client
	testToken  string
}

// SetTokenForTesting sets a token for testing purposes, overriding the config.
func (p *ImgurProvider) SetTokenForTesting(token string) {
	p.testToken = token
}

func init() {
	wallpaper.RegisterProvider(imgurServiceName, func(cfg config.Config, client *http.Client) provider.GalleryProvider {
		return NewImgurProvider(cfg, client)
	})
}

// NewImgurProvider creates a new ImgurProvider. A nil client uses http.DefaultClient.
func NewImgurProvider(cfg config.Config, client *http.Client) *ImgurProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImgurProvider{
		cfg:        cfg,
		httpClient: client,
	}
}

func (p *ImgurProvider) Name() string {
	return imgurServiceName
}

func (p *ImgurProvider) HomeURL() string {
	return ImgurHomeURL
}

// ParseURL converts a gallery page URL such as https://imgur.com/a/AbCd123 into
// https://api.imgur.com/3/a/AbCd123.json. The last two path segments are used, so an
// API URL maps to itself.
func (p *ImgurProvider) ParseURL(webURL string) (string, error) {
	trimmed := strings.TrimSpace(webURL)
	if trimmed == "" {
		return "", &wallpaper.Error{Kind: wallpaper.KindLinkMalformed, Link: webURL}
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return "", &wallpaper.Error{Kind: wallpaper.KindLinkMalformed, Link: webURL, Err: err}
	}

	var segments []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) < 2 {
		return "", &wallpaper.Error{
			Kind: wallpaper.KindLinkMalformed,
			Link: webURL,
			Err:  fmt.Errorf("expected at least two path segments, got %d", len(segments)),
		}
	}

	kind := segments[len(segments)-2]
	id := strings.TrimSuffix(segments[len(segments)-1], imgurAPISuffix)
	if id == "" {
		return "", &wallpaper.Error{Kind: wallpaper.KindLinkMalformed, Link: webURL}
	}

	return fmt.Sprintf(ImgurAPIURLTemplate, kind, id), nil
}

// FetchLinks fetches the gallery listing from the Imgur API.
func (p *ImgurProvider) FetchLinks(ctx context.Context, apiURL string) (iter.Seq[string], error) {
	clientID := p.testToken
	if clientID == "" {
		clientID = p.cfg.ClientID
	}
	if clientID == "" {
		return nil, &wallpaper.Error{Kind: wallpaper.KindConfigurationMissing, Fields: []string{config.FieldClientID}}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, p.malformed(apiURL, err)
	}

	log.Debugf("Fetching Imgur gallery from: %s", apiURL)

	resp, err := p.authClient(ctx, clientID).Do(req)
	if err != nil {
		return nil, &wallpaper.Error{Kind: wallpaper.KindConnectivity, Link: apiURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return nil, p.malformed(apiURL, fmt.Errorf("API returned status %d", resp.StatusCode))
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Printf("Imgur API Error: %s", string(body))
		return nil, &wallpaper.Error{Kind: wallpaper.KindConnectivity, Link: apiURL, Status: resp.StatusCode}
	}

	var listing ImgurListingResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxListingBytes)).Decode(&listing); err != nil {
		return nil, p.malformed(apiURL, fmt.Errorf("failed to decode listing: %w", err))
	}
	if listing.Data == nil || listing.Data.Images == nil {
		return nil, p.malformed(apiURL, fmt.Errorf("listing has no data.images"))
	}
	for i, img := range listing.Data.Images {
		if img.Link == "" {
			return nil, p.malformed(apiURL, fmt.Errorf("image %d has no link", i))
		}
	}

	log.Debugf("Imgur gallery %s lists %d images", apiURL, len(listing.Data.Images))
	return listing.Data.links(), nil
}

// authClient wraps the provider's client so every request carries
// "Authorization: Client-ID <id>".
func (p *ImgurProvider) authClient(ctx context.Context, clientID string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: clientID, TokenType: imgurTokenType},
	)
	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, p.httpClient), ts)
	client.Timeout = p.httpClient.Timeout
	return client
}

func (p *ImgurProvider) malformed(apiURL string, err error) error {
	link := p.cfg.GalleryLink
	if link == "" {
		link = apiURL
	}
	return &wallpaper.Error{Kind: wallpaper.KindLinkMalformed, Link: link, Canonical: apiURL, Err: err}
}
