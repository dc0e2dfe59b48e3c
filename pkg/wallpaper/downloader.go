package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/util/log"
)

// errImageTooLarge marks a response body over the downloader's byte cap.
var errImageTooLarge = errors.New("image exceeds size limit")

// Downloader fetches image bytes over plain GET requests.
type Downloader struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewDownloader creates a Downloader. A nil client uses http.DefaultClient.
func NewDownloader(client *http.Client) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Downloader{httpClient: client, maxBytes: MaxImageBytes}
}

// Download returns the full body of imageURL. Nothing is returned until the whole
// body has been read.
func (d *Downloader) Download(ctx context.Context, imageURL string) ([]byte, error) {
	u, err := url.Parse(imageURL)
	if imageURL == "" || err != nil || u.Scheme == "" || u.Host == "" {
		// A link without a scheme only comes out of a gallery fetched with bad settings.
		return nil, &Error{
			Kind:   KindConfigurationMissing,
			Fields: []string{config.FieldLink, config.FieldClientID},
			Link:   imageURL,
			Err:    err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	log.Debugf("Downloading image: %s", imageURL)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindConnectivity, Link: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: KindConnectivity, Link: imageURL, Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes+1))
	if err != nil {
		return nil, &Error{Kind: KindConnectivity, Link: imageURL, Err: err}
	}
	if int64(len(data)) > d.maxBytes {
		// Treated as an unusable response so repeating loops move on to another image.
		return nil, &Error{Kind: KindConnectivity, Link: imageURL, Err: fmt.Errorf("%w (%d bytes)", errImageTooLarge, d.maxBytes)}
	}
	return data, nil
}
