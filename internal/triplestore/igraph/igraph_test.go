package igraph

import (
	"errors"
	"reflect"
	"strconv"
	"testing"

	"github.com/FAU-CDI/kdict/internal/triplestore/impl"
)

// l returns a label from an int
func l(i int) impl.Label {
	return impl.Label("http://example.com/" + strconv.Itoa(i))
}

// d returns a datum from an int
func d(i int) impl.Datum {
	return impl.Datum(strconv.Itoa(i))
}

// graphTest implements an integration test for an Index with the given engine.
//
// It adds N subjects, each with one regular and one data triple, then adds every triple a second time.
// It then checks that each subject returns exactly its own triples, in insertion order.
func graphTest(t *testing.T, engine Engine, N int) {
	t.Helper()

	var g Index
	defer g.Close()

	if err := g.Reset(engine); err != nil {
		t.Fatalf("unable to reset: %s", err)
	}

	for range 2 {
		for i := range N {
			if err := g.AddTriple(l(i), l(-1), l(i+N)); err != nil {
				t.Fatalf("AddTriple() returned error %s", err)
			}
			if err := g.AddData(l(i), l(-2), d(i%10)); err != nil {
				t.Fatalf("AddData() returned error %s", err)
			}
		}
	}

	if err := g.Compact(); err != nil {
		t.Fatalf("unable to compact: %s", err)
	}
	if err := g.Finalize(); err != nil {
		t.Fatalf("unable to finalize: %s", err)
	}

	wantStats := Stats{DirectTriples: uint64(N), DatumTriples: uint64(N), DuplicateTriples: uint64(2 * N)}
	if got := g.Stats(); got != wantStats {
		t.Errorf("Stats() = %s, want = %s", got, wantStats)
	}

	count, err := g.TripleCount()
	if err != nil || count != uint64(2*N) {
		t.Errorf("TripleCount() = (%d, %v), want = %d", count, err, 2*N)
	}

	for i := range N {
		got, err := g.Subject(l(i))
		if err != nil {
			t.Fatalf("Subject() returned error %s", err)
		}
		if len(got) != 2 {
			t.Fatalf("Subject(%d) returned %d triples, want = 2", i, len(got))
		}

		// ids are not compared
		got[0].ID, got[1].ID = 0, 0

		want := []Triple{
			{Subject: l(i), Predicate: l(-1), Object: l(i + N), Role: Regular},
			{Subject: l(i), Predicate: l(-2), Datum: d(i % 10), Role: Data},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Subject(%d) = %v, want = %v", i, got, want)
		}
	}

	// objects are not subjects
	if got, err := g.Subject(l(N)); err != nil || len(got) != 0 {
		t.Errorf("Subject(object) = (%v, %v), want no triples", got, err)
	}

	// all triples are visited in order
	var visited int
	var last impl.ID
	if err := g.Triples(func(triple Triple) error {
		if triple.ID.Compare(last) <= 0 {
			t.Errorf("Triples() visited %s after %s", triple.ID, last)
		}
		last = triple.ID
		visited++
		return nil
	}); err != nil {
		t.Errorf("Triples() returned error %s", err)
	}
	if visited != 2*N {
		t.Errorf("Triples() visited %d triples, want = %d", visited, 2*N)
	}
}

func TestIndex_Finalized(t *testing.T) {
	t.Parallel()

	var g Index
	defer g.Close()

	if err := g.Reset(MemoryEngine{}); err != nil {
		t.Fatal(err)
	}
	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	if !g.Finalized() {
		t.Error("Finalized() = false after Finalize()")
	}

	if err := g.AddTriple(l(1), l(2), l(3)); !errors.Is(err, ErrFinalized) {
		t.Errorf("AddTriple() = %v, want = %v", err, ErrFinalized)
	}
	if err := g.AddData(l(1), l(2), d(3)); !errors.Is(err, ErrFinalized) {
		t.Errorf("AddData() = %v, want = %v", err, ErrFinalized)
	}
	if err := g.Compact(); !errors.Is(err, ErrFinalized) {
		t.Errorf("Compact() = %v, want = %v", err, ErrFinalized)
	}
	if err := g.Finalize(); !errors.Is(err, ErrFinalized) {
		t.Errorf("Finalize() = %v, want = %v", err, ErrFinalized)
	}
}

func TestTriple_Triple(t *testing.T) {
	t.Parallel()

	regular := Triple{Subject: l(1), Predicate: l(2), Object: l(3), Role: Regular}
	spo, err := regular.Triple()
	if err != nil {
		t.Fatalf("Triple() returned error %s", err)
	}
	if spo.Obj.String() != string(l(3)) {
		t.Errorf("Triple().Obj = %q, want = %q", spo.Obj.String(), l(3))
	}

	data := Triple{Subject: l(1), Predicate: l(2), Datum: "2020", Role: Data}
	spo, err = data.Triple()
	if err != nil {
		t.Fatalf("Triple() returned error %s", err)
	}
	if spo.Obj.String() != "2020" {
		t.Errorf("Triple().Obj = %q, want = %q", spo.Obj.String(), "2020")
	}

	invalid := Triple{Subject: "has space", Predicate: l(2), Object: l(3)}
	if _, err := invalid.Triple(); err == nil {
		t.Error("Triple() with an invalid subject did not return an error")
	}
}

func TestEncodeTriple(t *testing.T) {
	t.Parallel()

	want := IndexTriple{Role: Data, Items: [3]impl.ID{1, 300, 1 << 20}}

	encoded := EncodeTriple(want)
	got, err := DecodeTriple(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("DecodeTriple() = %v, want = %v", got, want)
	}

	if _, err := DecodeTriple(encoded[:3]); err == nil {
		t.Error("DecodeTriple() on short input did not return an error")
	}
}
