package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/pkg/wallpaper"
	"github.com/dixieflatline76/wpsetter/util"
	"github.com/dixieflatline76/wpsetter/util/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// errAlreadyRunning is returned when another repeating instance holds the lock.
var errAlreadyRunning = errors.New("another instance of " + config.AppName + " is already running")

// newSetter is replaced in tests.
var newSetter = wallpaper.NewSetter

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "wpsetter",
		Usage:   "Set a random image from an Imgur gallery as the desktop background",
		Version: config.AppVersion,
		Writer:  out,
		Commands: []*cli.Command{
			setCommand(),
			cacheCommand(),
			authCommand(),
			versionCommand(),
		},
	}
}

func linkFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "link",
		Aliases:  []string{"l"},
		Usage:    "Imgur gallery or album URL, e.g. https://imgur.com/a/AbCd123",
		Required: required,
	}
}

func clientIDFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "client-id",
		Usage: "Imgur API Client-ID (defaults to the one saved with 'auth set')",
	}
}

func imageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "convert", Usage: "re-encode downloaded images as BMP"},
		&cli.BoolFlag{Name: "fit", Usage: "crop and scale downloaded images to the primary display"},
	}
}

// setterFromFlags builds a Setter from the link, client-id, convert and fit flags.
func setterFromFlags(cmd *cli.Command) (*wallpaper.Setter, error) {
	clientID, err := config.ResolveClientID(cmd.String("client-id"))
	if err != nil {
		log.Printf("Could not read saved Client-ID: %v", err)
	}
	cfg := config.New(cmd.String("link"), clientID)
	log.Debugf("Using %s", cfg)

	return newSetter(cfg, wallpaper.Options{
		Convert: cmd.Bool("convert"),
		Fit:     cmd.Bool("fit"),
	})
}

func setCommand() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Download a random gallery image and set it as the background",
		Flags: append([]cli.Flag{
			linkFlag(false),
			clientIDFlag(),
			&cli.FloatFlag{Name: "minutes", Aliases: []string{"m"}, Usage: "minutes between changes"},
			&cli.BoolFlag{Name: "repeat", Aliases: []string{"r"}, Usage: "keep changing the background until interrupted"},
			&cli.BoolFlag{Name: "from-cache", Usage: "pick images from the cache built with 'cache build'"},
		}, imageFlags()...),
		Action: runSet,
	}
}

func runSet(ctx context.Context, cmd *cli.Command) error {
	setter, err := setterFromFlags(cmd)
	if err != nil {
		return err
	}

	opts := wallpaper.LoopOptions{
		Interval:  time.Duration(cmd.Float("minutes") * float64(time.Minute)),
		Repeat:    cmd.Bool("repeat"),
		FromCache: cmd.Bool("from-cache"),
		OnError: func(err error) {
			log.Printf("Background change failed, will retry next interval: %v", err)
		},
	}

	if opts.Repeat || opts.Interval != 0 {
		ok, err := acquireLock()
		if err != nil {
			return fmt.Errorf("acquiring single-instance lock: %w", err)
		}
		if !ok {
			return errAlreadyRunning
		}
		defer releaseLock()
	}

	g, gctx := errgroup.WithContext(ctx)
	w, started := setter.StartBackgroundLoop(gctx, opts)
	if !started {
		return errAlreadyRunning
	}
	g.Go(w.Wait)
	g.Go(func() error {
		select {
		case <-gctx.Done():
			w.Stop()
		case <-w.Done():
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if !opts.Repeat && opts.Interval == 0 {
		// An interrupted single cycle ends without error but sets nothing.
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.Root().Writer, "Background set from %s\n", sourceName(opts.FromCache, setter))
	}
	return nil
}

func sourceName(fromCache bool, setter *wallpaper.Setter) string {
	if fromCache {
		return "cache"
	}
	return setter.WallpaperPath()
}

func cacheCommand() *cli.Command {
	dirFlag := &cli.StringFlag{Name: "dir", Usage: "cache directory", Value: config.CacheDirName}
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the offline image cache",
		Commands: []*cli.Command{
			{
				Name:  "build",
				Usage: "Download gallery images until the size limit is reached",
				Flags: append([]cli.Flag{
					linkFlag(true),
					clientIDFlag(),
					dirFlag,
					&cli.Int64Flag{Name: "limit-mb", Usage: "cache size limit in MiB", Value: wallpaper.DefaultCacheLimit >> 20},
				}, imageFlags()...),
				Action: func(ctx context.Context, cmd *cli.Command) error {
					limit, err := limitBytes(cmd.Int64("limit-mb"))
					if err != nil {
						return err
					}
					setter, err := setterFromFlags(cmd)
					if err != nil {
						return err
					}
					job := setter.BuildCache(ctx, wallpaper.CacheOptions{
						Dir:   cmd.String("dir"),
						Limit: limit,
					})
					log.Debugf("Cache build %s started", job.ID())
					res, err := job.Wait()
					if res != nil {
						fmt.Fprintf(cmd.Root().Writer, "Cached %d files (%d new, %d bytes) in %s\n", len(res.Files), res.Downloaded, res.Bytes, res.Dir)
					}
					return err
				},
			},
			{
				Name:  "clear",
				Usage: "Delete the cache directory and its snapshot",
				Flags: []cli.Flag{dirFlag},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					setter, err := newSetter(config.Config{}, wallpaper.Options{})
					if err != nil {
						return err
					}
					res, err := setter.BuildCacheSync(ctx, wallpaper.CacheOptions{Dir: cmd.String("dir"), Clear: true})
					if err != nil {
						return err
					}
					if err := setter.Store().Remove(); err != nil {
						return err
					}
					fmt.Fprintf(cmd.Root().Writer, "Removed %s and %s\n", res.Dir, setter.Store().Path())
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Show the files recorded by the last cache build",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					setter, err := newSetter(config.Config{}, wallpaper.Options{})
					if err != nil {
						return err
					}
					files, err := setter.Store().Load()
					if err != nil {
						return err
					}
					out := cmd.Root().Writer
					fmt.Fprintf(out, "%d cached files listed in %s\n", len(files), setter.Store().Path())
					for _, f := range files {
						fmt.Fprintln(out, f)
					}
					return nil
				},
			},
		},
	}
}

// maxLimitMB keeps the byte limit within int64.
const maxLimitMB = math.MaxInt64 >> 20

// limitBytes converts the --limit-mb value to bytes.
func limitBytes(mb int64) (int64, error) {
	if mb < 0 || mb > maxLimitMB {
		return 0, fmt.Errorf("--limit-mb must be between 0 and %d, got %d", int64(maxLimitMB), mb)
	}
	return mb << 20, nil
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the saved Imgur Client-ID",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Save a Client-ID to the OS keyring",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "client-id", Usage: "Imgur API Client-ID", Required: true},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := config.SaveClientID(cmd.String("client-id")); err != nil {
						return err
					}
					fmt.Fprintln(cmd.Root().Writer, "Client-ID saved")
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Remove the saved Client-ID",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if err := config.DeleteClientID(); err != nil {
						return err
					}
					fmt.Fprintln(cmd.Root().Writer, "Client-ID removed")
					return nil
				},
			},
		},
	}
}

// checkForUpdates is replaced in tests.
var checkForUpdates = func(ctx context.Context) (*util.CheckForUpdatesResult, error) {
	return util.CheckForUpdates(ctx, wallpaper.NewHTTPClient())
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "check", Usage: "check GitHub for a newer release"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer
			fmt.Fprintf(out, "%s %s\n", config.AppName, config.AppVersion)
			if !cmd.Bool("check") {
				return nil
			}
			res, err := checkForUpdates(ctx)
			if err != nil {
				return err
			}
			if res.UpdateAvailable {
				fmt.Fprintf(out, "Update available: %s (%s)\n", res.LatestVersion, res.ReleaseURL)
			} else {
				fmt.Fprintln(out, "Up to date")
			}
			return nil
		},
	}
}

// exitCode maps errors to process exit codes.
func exitCode(err error) int {
	if errors.Is(err, errAlreadyRunning) {
		return 10
	}
	switch wallpaper.KindOf(err) {
	case wallpaper.KindConfigurationMissing:
		return 2
	case wallpaper.KindLinkMalformed:
		return 3
	case wallpaper.KindConnectivity:
		return 4
	case wallpaper.KindPlatformUnsupported:
		return 5
	case wallpaper.KindCacheUninitialized:
		return 6
	case wallpaper.KindEmptyGallery:
		return 7
	default:
		return 1
	}
}
