package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/aalvaropc/inferix/internal/domain"
)

// --- fakes shared by the usecase tests ---

type fakeTaskLoader struct {
	task domain.TaskSpec
	err  error
}

func (f fakeTaskLoader) LoadTask(_ string) (domain.TaskSpec, error) {
	return f.task, f.err
}
func (f fakeTaskLoader) ListTasks(_ string) ([]domain.TaskRef, error) {
	return nil, nil
}

type fakeDatasetLoader struct {
	ds  domain.Dataset
	err error
}

func (f fakeDatasetLoader) Load(_ domain.DatasetSource) (domain.Dataset, error) {
	return f.ds, f.err
}

// stubEstimator identifies everything and returns a fixed estimate, with
// optional per-pair failures keyed by "treatment->outcome".
type stubEstimator struct {
	identifyErr map[string]error
	estimateErr map[string]error
	value       float64
	calls       int
}

func pairKey(treatment, outcome string) string { return treatment + "->" + outcome }

func (s *stubEstimator) Identify(_ domain.Dataset, _ domain.GraphSpec, treatment, outcome string) (domain.Estimand, error) {
	if err := s.identifyErr[pairKey(treatment, outcome)]; err != nil {
		return domain.Estimand{}, err
	}
	return domain.Estimand{
		Type:       domain.EstimandBackdoor,
		Treatment:  treatment,
		Outcome:    outcome,
		Identified: true,
	}, nil
}

func (s *stubEstimator) Estimate(_ context.Context, _ domain.Dataset, est domain.Estimand, method string) (domain.Effect, error) {
	s.calls++
	if err := s.estimateErr[pairKey(est.Treatment, est.Outcome)]; err != nil {
		return domain.Effect{}, err
	}
	v := s.value
	return domain.Effect{
		Treatment: est.Treatment,
		Outcome:   est.Outcome,
		Estimate:  &v,
		Method:    method,
		Estimand:  &est,
	}, nil
}

func (s *stubEstimator) Methods() []string {
	return []string{"backdoor.difference_in_means", "backdoor.linear_regression"}
}

type fakeStore struct {
	saved bool
	last  domain.AnalysisArtifact
	err   error
}

func (s *fakeStore) SaveRun(run domain.AnalysisArtifact) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.saved = true
	s.last = run
	return "run-123", nil
}
func (s *fakeStore) ListRuns() ([]domain.RunRef, error)            { return nil, nil }
func (s *fakeStore) LoadRun(_ string) (domain.AnalysisArtifact, error) {
	return domain.AnalysisArtifact{}, nil
}

func sampleTask() domain.TaskSpec {
	return domain.TaskSpec{
		Name:   "demo",
		Method: "backdoor.linear_regression",
		Data:   domain.DatasetSource{Raw: `{"t":[0,1],"y":[0,2]}`},
		Graph: domain.GraphSpec{
			{From: "t", To: "y"},
		},
		Treatments: []string{"t", "u"},
		Outcomes:   []string{"y"},
	}
}

// --- tests ---

func TestRunAnalysis_AllPairs(t *testing.T) {
	est := &stubEstimator{value: 2}
	store := &fakeStore{}
	uc := NewRunAnalysis(fakeTaskLoader{task: sampleTask()}, fakeDatasetLoader{}, est, store)

	result, id, err := uc.Execute(context.Background(), "tasks/demo.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Effects) != 2 {
		t.Fatalf("effects = %d, want one per pair", len(result.Effects))
	}
	if result.Effects[0].Treatment != "t" || result.Effects[1].Treatment != "u" {
		t.Errorf("pair order wrong: %+v", result.Effects)
	}
	if id != "run-123" || !store.saved {
		t.Errorf("expected saved artifact, id=%q", id)
	}
	if store.last.TaskPath != "tasks/demo.yaml" {
		t.Errorf("artifact task path = %q", store.last.TaskPath)
	}
}

func TestRunAnalysis_PerPairFailureDoesNotAbortBatch(t *testing.T) {
	est := &stubEstimator{
		value: 2,
		estimateErr: map[string]error{
			pairKey("t", "y"): &domain.OpError{Op: "causal.estimate", Kind: domain.KindEstimation, Err: errors.New("singular")},
		},
	}
	uc := NewRunAnalysis(fakeTaskLoader{task: sampleTask()}, fakeDatasetLoader{}, est, nil)

	result, _, err := uc.Execute(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Effects) != 2 {
		t.Fatalf("effects = %d, want 2", len(result.Effects))
	}
	if !result.Effects[0].Failed() {
		t.Error("first pair should carry the inline error")
	}
	if result.Effects[0].Error.Kind != domain.RunErrorEstimation {
		t.Errorf("error kind = %s", result.Effects[0].Error.Kind)
	}
	if result.Effects[1].Failed() {
		t.Error("second pair should have succeeded")
	}
}

func TestRunAnalysis_IdentifyFailureRecordedInline(t *testing.T) {
	est := &stubEstimator{
		value: 1,
		identifyErr: map[string]error{
			pairKey("u", "y"): &domain.OpError{Op: "causal.identify", Kind: domain.KindInvalidGraph, Err: errors.New("not a node")},
		},
	}
	uc := NewRunAnalysis(fakeTaskLoader{task: sampleTask()}, fakeDatasetLoader{}, est, nil)

	result, _, err := uc.Execute(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Effects[1].Failed() {
		t.Fatal("expected inline identification error")
	}
	if result.Effects[1].Error.Kind != domain.RunErrorGraph {
		t.Errorf("kind = %s", result.Effects[1].Error.Kind)
	}
	// Estimation must not run for a failed identification.
	if est.calls != 1 {
		t.Errorf("estimate calls = %d, want 1", est.calls)
	}
}

func TestRunAnalysis_TaskLoadErrorAborts(t *testing.T) {
	wantErr := &domain.OpError{Op: "yamltask.load", Kind: domain.KindNotFound}
	uc := NewRunAnalysis(fakeTaskLoader{err: wantErr}, fakeDatasetLoader{}, &stubEstimator{}, nil)

	_, _, err := uc.Execute(context.Background(), "missing")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestRunAnalysis_DatasetErrorAborts(t *testing.T) {
	wantErr := &domain.OpError{Op: "dataset.load", Kind: domain.KindInvalidData}
	uc := NewRunAnalysis(fakeTaskLoader{task: sampleTask()}, fakeDatasetLoader{err: wantErr}, &stubEstimator{}, nil)

	_, _, err := uc.Execute(context.Background(), "x")
	if !domain.IsKind(err, domain.KindInvalidData) {
		t.Fatalf("expected invalid_data, got %v", err)
	}
}

func TestRunAnalysis_StoreErrorSurfaces(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	uc := NewRunAnalysis(fakeTaskLoader{task: sampleTask()}, fakeDatasetLoader{}, &stubEstimator{}, store)

	result, id, err := uc.Execute(context.Background(), "x")
	if err == nil {
		t.Fatal("expected store error")
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}
	// The computed result is still returned so callers can print it.
	if len(result.Effects) != 2 {
		t.Errorf("effects = %d", len(result.Effects))
	}
}

func TestRunAnalysis_DefaultMethodApplied(t *testing.T) {
	task := sampleTask()
	task.Method = ""
	uc := NewRunAnalysis(fakeTaskLoader{task: task}, fakeDatasetLoader{}, &stubEstimator{}, nil,
		WithDefaultMethod("backdoor.difference_in_means"))

	result, _, err := uc.Execute(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Method != "backdoor.difference_in_means" {
		t.Errorf("method = %q", result.Method)
	}
}

func TestRunAnalysis_CanceledContextStopsBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := NewRunAnalysis(fakeTaskLoader{task: sampleTask()}, fakeDatasetLoader{}, &stubEstimator{}, nil)

	result, _, err := uc.Execute(ctx, "x")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Effects) != 0 {
		t.Errorf("no pairs should run after cancellation, got %d", len(result.Effects))
	}
}
