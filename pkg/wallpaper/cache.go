package wallpaper

import (
	"context"
	"fmt"

	"github.com/dixieflatline76/wpsetter/config"
	"github.com/dixieflatline76/wpsetter/util/log"
)

// CacheOptions describes one cache build.
type CacheOptions struct {
	// Dir is the cache directory. Defaults to config.CacheDirName in the working directory.
	Dir string
	// Limit is the byte budget. Downloading stops once the directory holds at least
	// this many bytes, so Limit 0 downloads a single image.
	Limit int64
	// Clear removes Dir and does nothing else.
	Clear bool
}

// CacheResult reports what a cache build left on disk.
type CacheResult struct {
	Dir        string
	Files      []string
	Bytes      int64
	Downloaded int
	Cleared    bool
}

// BuildCache runs a cache build on its own goroutine and returns its handle.
// The result is available from the handle's Wait.
func (s *Setter) BuildCache(ctx context.Context, opts CacheOptions) *CacheJob {
	ctx, cancel := context.WithCancel(ctx)
	job := &CacheJob{Worker: newWorker(cancel)}
	go func() {
		defer job.finish()
		res, err := s.BuildCacheSync(ctx, opts)
		job.result = res
		job.err = err
	}()
	return job
}

// BuildCacheSync runs a cache build on the calling goroutine. Concurrent builds
// of the same directory share one run. Canceling ctx only abandons this
// caller's wait; the shared run is canceled once every caller has left it.
func (s *Setter) BuildCacheSync(ctx context.Context, opts CacheOptions) (*CacheResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir, err := absOrDefault(opts.Dir, config.CacheDirName)
	if err != nil {
		return nil, err
	}

	key := cacheKey(dir, opts.Clear)
	run, joined := s.joinCacheRun(ctx, key)
	if joined {
		log.Debugf("Cache: joined running build of %s", dir)
	}

	ch := s.cacheGroup.DoChan(key, func() (any, error) {
		return s.buildCache(run.ctx, NewFileManager(dir), opts)
	})
	select {
	case r := <-ch:
		s.leaveCacheRun(key, run)
		res, _ := r.Val.(*CacheResult)
		return res, r.Err
	case <-ctx.Done():
		s.leaveCacheRun(key, run)
		log.Debugf("Cache: stopped waiting for build of %s", dir)
		return nil, ctx.Err()
	}
}

func cacheKey(dir string, clearDir bool) string {
	return fmt.Sprintf("%s|%t", dir, clearDir)
}

// cacheRun is the context shared by every caller of one cache build.
type cacheRun struct {
	ctx    context.Context
	cancel context.CancelFunc
	refs   int
}

// joinCacheRun returns the live run for key, creating it if needed, and
// reports whether it already existed. The run context keeps ctx's values but
// not its cancellation.
func (s *Setter) joinCacheRun(ctx context.Context, key string) (*cacheRun, bool) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	if run, ok := s.cacheRuns[key]; ok {
		run.refs++
		return run, true
	}
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := &cacheRun{ctx: runCtx, cancel: cancel, refs: 1}
	s.cacheRuns[key] = run
	return run, false
}

// leaveCacheRun drops one reference and cancels the run when none remain.
func (s *Setter) leaveCacheRun(key string, run *cacheRun) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	run.refs--
	if run.refs > 0 {
		return
	}
	run.cancel()
	if s.cacheRuns[key] == run {
		delete(s.cacheRuns, key)
	}
}

func (s *Setter) buildCache(ctx context.Context, fm *FileManager, opts CacheOptions) (*CacheResult, error) {
	res := &CacheResult{Dir: fm.Dir()}

	if opts.Clear {
		if err := fm.Clear(); err != nil {
			return nil, err
		}
		res.Cleared = true
		return res, nil
	}

	var buildErr error
	if fm.Exists() {
		log.Printf("Cache: %s already exists, refreshing snapshot only", fm.Dir())
	} else {
		if err := fm.EnsureDir(); err != nil {
			return nil, err
		}
		res.Downloaded, buildErr = s.fillCache(ctx, fm, opts.Limit)
		if buildErr != nil && res.Downloaded == 0 {
			// An empty directory would turn every later build into a snapshot refresh.
			if err := fm.Clear(); err != nil {
				log.Printf("Cache: could not remove empty %s, run 'cache clear' before rebuilding: %v", fm.Dir(), err)
			}
			return res, buildErr
		}
	}

	files, err := fm.List()
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(files); err != nil {
		return nil, err
	}
	res.Files = files
	res.Bytes, err = fm.TotalSize()
	if err != nil {
		return nil, err
	}

	log.Printf("Cache: %d files, %d bytes in %s (snapshot %s)", len(files), res.Bytes, fm.Dir(), s.store.Path())
	return res, buildErr
}

// fillCache downloads gallery images into fm until the directory reaches limit
// bytes or the gallery runs out. The size is checked after each download.
func (s *Setter) fillCache(ctx context.Context, fm *FileManager, limit int64) (int, error) {
	links, err := s.FetchLinks(ctx)
	if err != nil {
		return 0, err
	}

	n := 0
	for link := range links {
		if err := s.cacheLimit.Wait(ctx); err != nil {
			return n, err
		}
		if err := s.downloadTo(ctx, link, fm.CachedImagePath(n)); err != nil {
			return n, fmt.Errorf("caching %s: %w", link, err)
		}
		n++

		size, err := fm.TotalSize()
		if err != nil {
			return n, err
		}
		log.Debugf("Cache: %d images, %d/%d bytes", n, size, limit)
		if size >= limit {
			break
		}
	}
	return n, nil
}

// CacheJob is the handle of a background cache build.
type CacheJob struct {
	*Worker
	result *CacheResult
}

// Wait blocks until the build finishes and returns its result.
func (j *CacheJob) Wait() (*CacheResult, error) {
	err := j.Worker.Wait()
	return j.result, err
}
