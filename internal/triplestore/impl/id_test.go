package impl

import (
	"fmt"
	"testing"
)

func ExampleID() {
	// the zero id isn't valid
	var id ID
	fmt.Println(id, id.Valid())

	// incrementing makes it valid
	fmt.Println(id.Inc(), id.Valid())

	var three ID
	for range 3 {
		three.Inc()
	}
	fmt.Println(id.Compare(three), three.Compare(id), three.Compare(three))

	// Output: ID(0) false
	// ID(1) true
	// -1 1 0
}

func TestID_Encode(t *testing.T) {
	t.Parallel()

	ids := []ID{1, 300, 1 << 20, 1<<32 - 1}

	encoded := EncodeIDs(ids...)
	if len(encoded) != len(ids)*IDLen {
		t.Fatalf("EncodeIDs() returned %d bytes", len(encoded))
	}
	for i, want := range ids {
		if got := DecodeID(encoded, i); got != want {
			t.Errorf("DecodeID(%d) = %s, want = %s", i, got, want)
		}
	}

	var x, y ID
	if err := UnmarshalIDs(encoded, &x, &y); err != nil {
		t.Fatalf("UnmarshalIDs() returned error %s", err)
	}
	if x != ids[0] || y != ids[1] {
		t.Errorf("UnmarshalIDs() = (%s, %s), want = (%s, %s)", x, y, ids[0], ids[1])
	}

	if err := UnmarshalIDs(encoded[:IDLen-1], &x); err == nil {
		t.Error("UnmarshalIDs() on short input did not return an error")
	}
}

func TestID_EncodeOrder(t *testing.T) {
	t.Parallel()

	// encoded ids must sort like the ids do, as the disk index relies on it
	var prev []byte
	for _, id := range []ID{1, 2, 255, 256, 65535, 65536, 1 << 24} {
		cur := EncodeIDs(id)
		if prev != nil && string(prev) >= string(cur) {
			t.Errorf("encoding of %s does not sort after its predecessor", id)
		}
		prev = cur
	}
}

func TestID_Inc(t *testing.T) {
	t.Parallel()

	var id ID
	for i := 1; i <= 1<<16; i++ {
		if got := id.Inc(); got != ID(i) {
			t.Fatalf("Inc() #%d = %s", i, got)
		}
	}

	id = 1<<32 - 1
	defer func() {
		if recover() == nil {
			t.Error("Inc() on the last id did not panic")
		}
	}()
	id.Inc()
}

func BenchmarkID_Inc(b *testing.B) {
	var id ID
	for range b.N {
		id.Reset()
		for range 10 {
			id.Inc()
		}
	}
}
