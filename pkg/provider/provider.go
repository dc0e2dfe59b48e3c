package provider

import (
	"context"
	"iter"
)

// GalleryProvider defines the interface for a remote image gallery service.
type GalleryProvider interface {
	// Name returns the provider name.
	Name() string
	// HomeURL returns the home URL of the provider service.
	HomeURL() string
	// ParseURL converts a gallery web URL (or an already converted API URL) into the API URL.
	// It must be idempotent: ParseURL of its own output returns the same string.
	ParseURL(webURL string) (string, error)
	// FetchLinks issues one authenticated listing request against apiURL and returns the
	// image links in listing order. The sequence is finite and can be ranged over once.
	FetchLinks(ctx context.Context, apiURL string) (iter.Seq[string], error)
}
