package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging. Use these consistently
// across log statements so aggregation/querying can rely on stable names.
const (
	KeyTraceID   = "trace_id"
	KeyOperation = "operation" // append, retrieve, delete, set_seen, ...

	KeyStoreName = "store_name" // list name or docstore path
	KeyYYYYMM    = "yyyymm"     // data page month partition
	KeyCtime     = "ctime"

	KeyBucket  = "bucket"
	KeyKey     = "key"     // object-store key
	KeyRegion  = "region"
	KeyAttempt = "attempt"

	KeyCacheHit = "cache_hit"

	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyErrorCode  = "error_code"
	KeyCount      = "count"
)

// TraceID returns a slog.Attr for the request correlation id.
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// Operation returns a slog.Attr naming the store operation.
func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }

// StoreName returns a slog.Attr for the list or docstore path.
func StoreName(name string) slog.Attr { return slog.String(KeyStoreName, name) }

// YYYYMM returns a slog.Attr for the month partition key.
func YYYYMM(ym string) slog.Attr { return slog.String(KeyYYYYMM, ym) }

// Ctime returns a slog.Attr for an item's ctime.
func Ctime(ctime int64) slog.Attr { return slog.Int64(KeyCtime, ctime) }

// Bucket returns a slog.Attr for the object-store bucket name.
func Bucket(name string) slog.Attr { return slog.String(KeyBucket, name) }

// Key returns a slog.Attr for an object-store/cache key.
func Key(k string) slog.Attr { return slog.String(KeyKey, k) }

// Region returns a slog.Attr for the object-store region.
func Region(r string) slog.Attr { return slog.String(KeyRegion, r) }

// Attempt returns a slog.Attr for a retry attempt number.
func Attempt(n int) slog.Attr { return slog.Int(KeyAttempt, n) }

// CacheHit returns a slog.Attr indicating whether a read was served from
// cache.
func CacheHit(hit bool) slog.Attr { return slog.Bool(KeyCacheHit, hit) }

// DurationMs returns a slog.Attr for an operation's elapsed time.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr wrapping an error's message.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Count returns a slog.Attr for an item count.
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// Duration returns the elapsed time since start in milliseconds, for
// pairing with DurationMs at the call site.
func Duration(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
