package stats_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/FAU-CDI/kdict/internal/stats"
)

func TestStats_DoStage(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	st := stats.NewStats(&buffer)

	errStage := errors.New("stage failed")

	if err := st.DoStage(stats.StageFetch, func() error {
		st.SetCT(1, 2)
		return nil
	}); err != nil {
		t.Fatalf("DoStage() returned error %v", err)
	}
	if err := st.DoStage(stats.StageIndex, func() error {
		return errStage
	}); !errors.Is(err, errStage) {
		t.Fatalf("DoStage() returned error %v, want %v", err, errStage)
	}

	all := st.All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d stages, want 2", len(all))
	}
	if all[0].Stage != stats.StageFetch || all[0].Current != 1 || all[0].Total != 2 {
		t.Errorf("All()[0] = %+v", all[0])
	}
	if all[1].Stage != stats.StageIndex {
		t.Errorf("All()[1].Stage = %q", all[1].Stage)
	}

	log := buffer.String()
	for _, want := range []string{"stage=fetch", "stage=index", "FAILED stage", "stage failed"} {
		if !strings.Contains(log, want) {
			t.Errorf("log output does not contain %q", want)
		}
	}
}

func TestStats_Progress(t *testing.T) {
	t.Parallel()

	st := stats.NewStats(nil)
	st.Start(stats.StageNormalize)
	st.SetCT(3, 10)

	got := st.Progress()
	want := stats.Progress{Stage: stats.StageNormalize, Current: 3, Total: 10}
	if got != want {
		t.Errorf("Progress() = %+v, want = %+v", got, want)
	}

	st.Close()
	if got := st.Progress(); !got.Done {
		t.Errorf("Progress() after Close() = %+v, want Done", got)
	}

	// edits after close are ignored
	before := len(st.All())
	st.Start(stats.StageIndex)
	if got := len(st.All()); got != before {
		t.Errorf("len(All()) after Start() on closed stats = %d, want = %d", got, before)
	}
}

func TestStats_Reset(t *testing.T) {
	t.Parallel()

	st := stats.NewStats(nil)
	_ = st.DoStage(stats.StageFetch, func() error { return nil })
	st.Start(stats.StageNormalize)

	st.Reset()
	if got := st.All(); len(got) != 0 {
		t.Errorf("All() after Reset() = %v, want no stages", got)
	}

	_ = st.DoStage(stats.StageIndex, func() error { return nil })
	got := st.All()
	if len(got) != 1 || got[0].Stage != stats.StageIndex {
		t.Errorf("All() = %v, want only %q", got, stats.StageIndex)
	}
}

func TestStats_Nil(t *testing.T) {
	t.Parallel()

	var st *stats.Stats

	called := false
	_ = st.DoStage(stats.StageSearch, func() error {
		called = true
		return nil
	})
	if !called {
		t.Error("DoStage() on nil stats did not invoke function")
	}

	st.Log("ignored")
	st.Reset()
	st.SetCT(1, 1)
	if !st.Done() {
		t.Error("Done() on nil stats = false")
	}
	if st.Logger() == nil {
		t.Error("Logger() on nil stats = nil")
	}
}
