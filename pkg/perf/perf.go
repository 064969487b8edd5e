// Package perf captures time and heap usage of long-running operations.
package perf

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

// Snapshot holds time and heap usage at a specific instant.
type Snapshot struct {
	Time    time.Time
	Bytes   int64 // heap and stack bytes in use
	Objects int64 // objects on the heap
}

// Now takes a snapshot of the current time and heap usage.
//
// Now does not force a garbage collection.
// Byte and object counts therefore include garbage that has not yet been collected.
func Now() Snapshot {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return Snapshot{
		Time:    time.Now(),
		Bytes:   int64(stats.HeapInuse + stats.StackInuse),
		Objects: int64(stats.HeapObjects),
	}
}

func (snapshot Snapshot) String() string {
	return fmt.Sprintf("%s (%s) used at %s", Bytes(snapshot.Bytes), Objects(snapshot.Objects), snapshot.Time.Format(time.Stamp))
}

// Sub returns the difference between snapshot and an earlier snapshot.
func (snapshot Snapshot) Sub(earlier Snapshot) Diff {
	return Diff{
		Time:    snapshot.Time.Sub(earlier.Time),
		Bytes:   snapshot.Bytes - earlier.Bytes,
		Objects: snapshot.Objects - earlier.Objects,
	}
}

// Since returns the difference between now and start.
func Since(start Snapshot) Diff {
	return Now().Sub(start)
}

// Diff is the difference between two snapshots.
type Diff struct {
	Time    time.Duration
	Bytes   int64
	Objects int64
}

func (diff Diff) String() string {
	return fmt.Sprintf("%s, %s, %s", diff.Time, Bytes(diff.Bytes), Objects(diff.Objects))
}

// MarshalJSON encodes diff as an object with both machine and human readable fields.
func (diff Diff) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Took    string  `json:"took"`
		Seconds float64 `json:"seconds"`
		Bytes   int64   `json:"bytes"`
		Memory  string  `json:"memory"`
		Objects int64   `json:"objects"`
	}{
		Took:    diff.Time.String(),
		Seconds: diff.Time.Seconds(),
		Bytes:   diff.Bytes,
		Memory:  Bytes(diff.Bytes),
		Objects: diff.Objects,
	})
}

// Bytes formats a possibly negative number of bytes for humans.
func Bytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.Bytes(uint64(-bytes))
	}
	return humanize.Bytes(uint64(bytes))
}

// Objects formats a possibly negative number of objects for humans.
func Objects(count int64) string {
	if count == 1 || count == -1 {
		return fmt.Sprintf("%d object", count)
	}
	return humanize.Comma(count) + " objects"
}
