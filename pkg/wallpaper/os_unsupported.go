//go:build !windows

package wallpaper

import "github.com/dixieflatline76/wpsetter/pkg/sysinfo"

// unsupportedOS reports PlatformUnsupported for the wallpaper primitive.
type unsupportedOS struct{}

func (u *unsupportedOS) setWallpaper(string) error {
	return &Error{Kind: KindPlatformUnsupported, OS: osFamily()}
}

// getDesktopDimension still works where sysinfo can probe the screen, so cached
// images can be fitted ahead of time.
func (u *unsupportedOS) getDesktopDimension() (int, int, error) {
	return sysinfo.GetScreenDimensions()
}

func getOS() OS {
	return &unsupportedOS{}
}
