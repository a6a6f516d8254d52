package duration

import (
	"fmt"
	"time"
)

// Format renders d as "N minutes" below one hour and as
// "H hours and M minutes" from one hour on. Partial minutes are truncated.
func Format(d time.Duration) string {
	minutes := int64(d / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	return fmt.Sprintf("%d hours and %d minutes", hours, minutes-hours*60)
}

// Clock renders an elapsed time as H:MM:SS for the live watcher.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
