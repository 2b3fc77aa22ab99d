package agp

import "time"

// nowMillis mirrors the original's arcan_timemillis(): a monotonic-enough
// millisecond timestamp stamped onto VStore updates (updateTS).
func nowMillis() int64 { return time.Now().UnixMilli() }
