package runstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/inferix/internal/domain"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func sampleArtifact() domain.AnalysisArtifact {
	v := 2.0
	return domain.AnalysisArtifact{
		TaskPath:  "tasks/engine.yaml",
		StartedAt: fixedNow(),
		Result: domain.AnalysisResult{
			TaskName: "Engine Temps",
			Method:   "backdoor.linear_regression",
			Effects: []domain.Effect{
				{Treatment: "engine_load", Outcome: "egt_turbo_inlet", Estimate: &v, Method: "backdoor.linear_regression"},
			},
			Treatments: []string{"engine_load"},
			Outcomes:   []string{"egt_turbo_inlet"},
		},
	}
}

func newTestStore(t *testing.T) (*JSONStore, string) {
	t.Helper()
	tmp := t.TempDir()
	s := NewJSONStore(tmp, domain.DefaultConfig(),
		WithNow(fixedNow),
		WithIDSuffix(func() string { return "abcd1234" }),
	)
	return s, tmp
}

func TestSaveRun_WritesArtifact(t *testing.T) {
	s, tmp := newTestStore(t)

	id, err := s.SaveRun(sampleArtifact())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(id, "20250314T092653Z_engine-temps_") {
		t.Errorf("id = %q", id)
	}

	path := filepath.Join(tmp, "runs", id+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not written: %v", err)
	}

	var art domain.AnalysisArtifact
	if err := json.Unmarshal(b, &art); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	if art.ID != id {
		t.Errorf("artifact id = %q, want %q", art.ID, id)
	}
	if len(art.Result.Effects) != 1 || art.Result.Effects[0].Treatment != "engine_load" {
		t.Errorf("effects = %v", art.Result.Effects)
	}
}

func TestSaveRun_NoTmpLeftover(t *testing.T) {
	s, tmp := newTestStore(t)

	if _, err := s.SaveRun(sampleArtifact()); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(tmp, "runs"))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("tmp file left behind: %s", e.Name())
		}
	}
}

func TestSaveRun_Index(t *testing.T) {
	tmp := t.TempDir()
	s := NewJSONStore(tmp, domain.DefaultConfig(), WithNow(fixedNow), WithIndex(true))

	id, err := s.SaveRun(sampleArtifact())
	if err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(filepath.Join(tmp, "runs", "index.jsonl"))
	if err != nil {
		t.Fatalf("index not written: %v", err)
	}

	line := strings.TrimSpace(string(b))
	var entry struct {
		ID   string `json:"id"`
		Task string `json:"task"`
	}
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("index line invalid: %v", err)
	}
	if entry.ID != id || entry.Task != "Engine Temps" {
		t.Errorf("index entry = %+v", entry)
	}
}

func TestListRuns_SortedNewestFirst(t *testing.T) {
	tmp := t.TempDir()
	s := NewJSONStore(tmp, domain.DefaultConfig())

	older := sampleArtifact()
	older.StartedAt = fixedNow().Add(-time.Hour)
	newer := sampleArtifact()

	if _, err := s.SaveRun(older); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveRun(newer); err != nil {
		t.Fatal(err)
	}

	refs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("refs = %v", refs)
	}
	if !refs[0].StartedAt.After(refs[1].StartedAt) {
		t.Errorf("expected newest first: %v", refs)
	}
}

func TestListRuns_EmptyWorkspace(t *testing.T) {
	s := NewJSONStore(t.TempDir(), domain.DefaultConfig())

	refs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("refs = %v, want none", refs)
	}
}

func TestLoadRun_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)

	id, err := s.SaveRun(sampleArtifact())
	if err != nil {
		t.Fatal(err)
	}

	art, err := s.LoadRun(id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if art.Result.TaskName != "Engine Temps" {
		t.Errorf("task name = %q", art.Result.TaskName)
	}
}

func TestLoadRun_RejectsPathSeparators(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.LoadRun("../escape"); !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestLoadRun_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	if _, err := s.LoadRun("nope"); !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Engine Temps", "engine-temps"},
		{"  weird__name..", "weird-name"},
		{"", ""},
		{"--", ""},
	}
	for _, c := range cases {
		if got := slugify(c.in); got != c.want {
			t.Errorf("slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
