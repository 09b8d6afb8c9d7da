package store

import (
	"path/filepath"
	"testing"

	"github.com/ssoonan/pod-activation-experiment/internal/analyze"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleGroups() []analyze.Group {
	return []analyze.Group{
		{
			Name: "baseline",
			Experiments: []analyze.Experiment{
				{Name: "exp0", Count: 5, MinMs: 100, MaxMs: 140, SpreadMs: 40, StdMs: 15},
				{Name: "exp1", Count: 5, MinMs: 90, MaxMs: 150, SpreadMs: 60, StdMs: 22},
			},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)

	run := NewRun("/tmp/results", sampleGroups())
	if run.ID == "" {
		t.Fatal("run id not assigned")
	}
	if err := s.SaveRun(run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.ResultsDir != "/tmp/results" {
		t.Errorf("results dir = %q", got.ResultsDir)
	}
	if len(got.Experiments) != 2 {
		t.Fatalf("got %d experiments, want 2", len(got.Experiments))
	}
	if got.Experiments[0].Group != "baseline" || got.Experiments[0].Experiment != "exp0" {
		t.Errorf("first row = %+v", got.Experiments[0])
	}
	if got.Experiments[1].SpreadMs != 60 {
		t.Errorf("spread = %v, want 60", got.Experiments[1].SpreadMs)
	}
}

func TestListRunsAggregates(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveRun(NewRun("/a", sampleGroups())); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun(NewRun("/b", nil)); err != nil {
		t.Fatal(err)
	}

	infos, err := s.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("got %d runs, want 2", len(infos))
	}

	byDir := map[string]RunInfo{}
	for _, info := range infos {
		byDir[info.ResultsDir] = info
	}
	if byDir["/a"].Experiments != 2 {
		t.Errorf("run /a experiments = %d, want 2", byDir["/a"].Experiments)
	}
	if byDir["/a"].MeanSpreadMs != 50 {
		t.Errorf("run /a mean spread = %v, want 50", byDir["/a"].MeanSpreadMs)
	}
	if byDir["/b"].Experiments != 0 {
		t.Errorf("run /b experiments = %d, want 0", byDir["/b"].Experiments)
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetRun("missing"); err == nil {
		t.Error("expected error for unknown run id")
	}
}
