package config

import "strings"

// AppVersion is the version of the application, set at build time with -ldflags.
var AppVersion = "0.1.0"

// AppName is the name of the application.
const AppName = "WPSetter"

// LogWinSubDir is the sub directory for the log files on windows.
var LogWinSubDir = AppName

// LogSubDir is the sub directory for the log files.
var LogSubDir = "." + strings.ToLower(AppName)

// LogExt is the extension for the log files.
var LogExt = ".log"

// Fixed artifact names, relative to the working directory.
const (
	WallpaperFileName = "wallpaper.bmp"        // WallpaperFileName is the file holding the current background
	CacheStateFile    = "wallpaper_cache.json" // CacheStateFile holds the snapshot of cached image paths
	CacheDirName      = "wallpaper_cache"      // CacheDirName is the default cache directory
)

// keyringService is the service name under which credentials are stored in the OS keyring.
const keyringService = "wpsetter_imgur_client_id"
