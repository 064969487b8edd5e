package perf_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/FAU-CDI/kdict/pkg/perf"
)

func ExampleDiff() {
	// Diff holds the time an operation took, the change in heap bytes and the change in heap objects.
	diff := perf.Diff{
		Time:    15 * time.Second,
		Bytes:   -2048,
		Objects: 12345,
	}
	fmt.Println(diff)
	// Output: 15s, -2.0 kB, 12,345 objects
}

func TestSnapshot_Sub(t *testing.T) {
	t.Parallel()

	start := perf.Snapshot{Time: time.Unix(0, 0), Bytes: 10, Objects: 2}
	end := perf.Snapshot{Time: time.Unix(5, 0), Bytes: 30, Objects: 3}

	got := end.Sub(start)
	want := perf.Diff{Time: 5 * time.Second, Bytes: 20, Objects: 1}
	if got != want {
		t.Errorf("Sub() = %v, want = %v", got, want)
	}
	if s := got.String(); s != "5s, 20 B, 1 object" {
		t.Errorf("String() = %q", s)
	}
}

func TestDiff_MarshalJSON(t *testing.T) {
	t.Parallel()

	got, err := json.Marshal(perf.Diff{Time: 1500 * time.Millisecond, Bytes: 2048, Objects: 3})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"took":"1.5s","seconds":1.5,"bytes":2048,"memory":"2.0 kB","objects":3}`
	if string(got) != want {
		t.Errorf("MarshalJSON() = %s, want = %s", got, want)
	}
}
