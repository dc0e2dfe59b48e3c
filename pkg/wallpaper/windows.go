//go:build windows

package wallpaper

import (
	"fmt"
	"unsafe"

	"github.com/dixieflatline76/wpsetter/pkg/sysinfo"
	"golang.org/x/sys/windows"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	systemParametersInfo = user32.NewProc("SystemParametersInfoW")
)

// windowsOS implements the OS interface for Windows.
type windowsOS struct{}

// Windows API constants (defined manually)
const (
	SPISetDeskWallpaper = 0x0014
	SPIFUpdateIniFile   = 0x01
)

// setWallpaper sets the wallpaper to the given image file path.
func (w *windowsOS) setWallpaper(imagePath string) error {
	if err := systemParametersInfo.Find(); err != nil {
		return &Error{Kind: KindPlatformUnsupported, OS: osFamily(), Err: err}
	}

	imagePathUTF16, err := windows.UTF16PtrFromString(imagePath)
	if err != nil {
		return fmt.Errorf("encoding wallpaper path: %w", err)
	}

	ret, _, callErr := systemParametersInfo.Call(
		uintptr(SPISetDeskWallpaper),
		uintptr(0),
		uintptr(unsafe.Pointer(imagePathUTF16)),
		uintptr(SPIFUpdateIniFile),
	)
	if ret == 0 {
		return fmt.Errorf("SystemParametersInfoW(%s): %w", imagePath, callErr)
	}

	return nil
}

// getDesktopDimension returns the desktop dimension (width and height) in pixels.
func (w *windowsOS) getDesktopDimension() (int, int, error) {
	return sysinfo.GetScreenDimensions()
}

// getOS returns a new instance of the windowsOS struct.
func getOS() OS {
	return &windowsOS{}
}
