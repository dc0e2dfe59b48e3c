//go:build !windows && !linux

package sysinfo

import (
	"fmt"
	"runtime"
)

// GetScreenDimensions is not implemented on this platform.
func GetScreenDimensions() (int, int, error) {
	return 0, 0, fmt.Errorf("screen dimensions are not available on %s", runtime.GOOS)
}
