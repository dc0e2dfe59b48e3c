package wallpaper

import (
	"fmt"
	"path/filepath"
	"runtime"
)

// OS abstracts the platform calls the pipeline needs.
type OS interface {
	getDesktopDimension() (int, int, error)
	setWallpaper(path string) error
}

// osFamily returns the running OS family the way users know it.
func osFamily() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "linux":
		return "Linux"
	case "darwin":
		return "Darwin"
	case "freebsd":
		return "FreeBSD"
	case "openbsd":
		return "OpenBSD"
	default:
		return runtime.GOOS
	}
}

// ApplyBackground sets the desktop background to the image at path.
// Relative paths are made absolute against the working directory.
func ApplyBackground(path string) error {
	return applyBackground(getOS(), path)
}

func applyBackground(osImpl OS, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving wallpaper path: %w", err)
	}
	return osImpl.setWallpaper(abs)
}
