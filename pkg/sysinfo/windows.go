//go:build windows

package sysinfo

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	user32           = windows.NewLazySystemDLL("user32.dll")
	getSystemMetrics = user32.NewProc("GetSystemMetrics")
)

const (
	SMCXScreen = 0
	SMCYScreen = 1
)

// GetScreenDimensions returns the primary desktop dimension (width and height) in pixels.
func GetScreenDimensions() (int, int, error) {
	if err := getSystemMetrics.Find(); err != nil {
		return 0, 0, fmt.Errorf("GetSystemMetrics unavailable: %w", err)
	}

	width, _, _ := getSystemMetrics.Call(uintptr(SMCXScreen))
	height, _, _ := getSystemMetrics.Call(uintptr(SMCYScreen))
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("GetSystemMetrics returned %dx%d", width, height)
	}

	return int(width), int(height), nil
}
