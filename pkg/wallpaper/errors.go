package wallpaper

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies the failures the wallpaper pipeline can report.
type ErrorKind int

// ErrorKind constants
const (
	KindConfigurationMissing ErrorKind = iota + 1
	KindLinkMalformed
	KindConnectivity
	KindPlatformUnsupported
	KindCacheUninitialized
	KindEmptyGallery
)

// String returns the string representation of an ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindConfigurationMissing:
		return "ConfigurationMissing"
	case KindLinkMalformed:
		return "LinkMalformed"
	case KindConnectivity:
		return "Connectivity"
	case KindPlatformUnsupported:
		return "PlatformUnsupported"
	case KindCacheUninitialized:
		return "CacheUninitialized"
	case KindEmptyGallery:
		return "EmptyGallery"
	default:
		return "Unknown"
	}
}

// Sentinels for errors.Is. An *Error matches the sentinel of its Kind.
var (
	ErrConfigurationMissing = &Error{Kind: KindConfigurationMissing}
	ErrLinkMalformed        = &Error{Kind: KindLinkMalformed}
	ErrConnectivity         = &Error{Kind: KindConnectivity}
	ErrPlatformUnsupported  = &Error{Kind: KindPlatformUnsupported}
	ErrCacheUninitialized   = &Error{Kind: KindCacheUninitialized}
	ErrEmptyGallery         = &Error{Kind: KindEmptyGallery}
)

// Error is returned by every operation in this package and by gallery providers.
// The fields carry the cause as it was known when the error was raised.
type Error struct {
	Kind ErrorKind

	Fields    []string // ConfigurationMissing: config fields that are (or may be) unset
	Link      string   // LinkMalformed, Connectivity: the link being processed
	Canonical string   // LinkMalformed: the resolver's form of Link, if any
	OS        string   // PlatformUnsupported: detected OS family
	Status    int      // Connectivity: HTTP status, 0 if the request never completed
	Path      string   // CacheUninitialized: the missing snapshot file

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindConfigurationMissing:
		fmt.Fprintf(&b, "configuration missing: %s may be unset", strings.Join(e.Fields, " and "))
	case KindLinkMalformed:
		fmt.Fprintf(&b, "gallery link %q is malformed", e.Link)
		if e.Canonical != "" {
			fmt.Fprintf(&b, " (resolved to %q)", e.Canonical)
		}
	case KindConnectivity:
		b.WriteString("connectivity error")
		if e.Link != "" {
			fmt.Fprintf(&b, " requesting %s", e.Link)
		}
		if e.Status != 0 {
			fmt.Fprintf(&b, ": HTTP %d", e.Status)
		}
	case KindPlatformUnsupported:
		fmt.Fprintf(&b, "%s is not supported: setting the desktop background requires Windows", e.OS)
	case KindCacheUninitialized:
		b.WriteString("wallpaper cache has not been built")
		if e.Path != "" {
			fmt.Fprintf(&b, " (%s not found)", e.Path)
		}
	case KindEmptyGallery:
		b.WriteString("gallery has no images")
		if e.Link != "" {
			fmt.Fprintf(&b, ": %s", e.Link)
		}
	default:
		b.WriteString("wallpaper error")
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the ErrorKind of err, or 0 if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
