package wallpaper

import "time"

// DefaultProviderName is the gallery provider used when none is named.
const DefaultProviderName = "Imgur"

// Cache constants
const (
	CachedImagePrefix = "wallpaper" // CachedImagePrefix is the file name prefix of cached images: wallpaper<N>.bmp
	CachedImageExt    = ".bmp"      // CachedImageExt is the extension given to every cached image
	DefaultCacheLimit = 100 << 20   // DefaultCacheLimit is the default cache byte budget (100 MiB)

	// CacheDownloadRate and CacheDownloadBurst pace image downloads during a cache build.
	CacheDownloadRate  = 2 // requests per second
	CacheDownloadBurst = 4
)

// Interval constants
const (
	// DefaultInterval is the interval used when repeat is requested without one.
	DefaultInterval = 30 * time.Minute
	// MinInterval is the smallest accepted repeat interval.
	MinInterval = 1 * time.Minute
)

// NetworkTimeouts defines the standard durations for various network operations.
const (
	// HTTPClientRequestTimeout is the total time limit for a single HTTP request,
	// including connection, redirects, and reading the response body.
	HTTPClientRequestTimeout = 60 * time.Second

	// HTTPClientDialerTimeout is the timeout for establishing a TCP connection.
	HTTPClientDialerTimeout = 15 * time.Second

	// HTTPClientTLSHandshakeTimeout is the time limit for the TLS handshake for HTTPS.
	HTTPClientTLSHandshakeTimeout = 10 * time.Second

	// HTTPClientResponseHeaderTimeout is the time limit for receiving response headers
	// from the server after the request has been successfully sent.
	HTTPClientResponseHeaderTimeout = 15 * time.Second

	// HTTPClientKeepAlive is the duration for TCP keep-alive probes.
	HTTPClientKeepAlive = 30 * time.Second
)

// MaxImageBytes caps a single image download.
const MaxImageBytes = 64 << 20
