package wallpaper

import (
	"testing"
	"time"
)

// setMinIntervalForTesting lowers the repeat interval floor for the duration of the test.
func setMinIntervalForTesting(t *testing.T, d time.Duration) {
	t.Helper()
	old := minInterval
	minInterval = d
	t.Cleanup(func() { minInterval = old })
}

// cacheRunRefs returns how many callers share the running build of dir.
func (s *Setter) cacheRunRefs(dir string) int {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if run, ok := s.cacheRuns[cacheKey(dir, false)]; ok {
		return run.refs
	}
	return 0
}
