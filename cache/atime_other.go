//go:build !linux && !darwin

package cache

import (
	"os"
	"time"
)

// accessTime is unavailable here; callers fall back to the modification time.
func accessTime(os.FileInfo) (time.Time, bool) { return time.Time{}, false }
