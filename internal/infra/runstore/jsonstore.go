// Package runstore persists analysis runs as JSON artifacts under the
// workspace runs directory.
package runstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aalvaropc/inferix/internal/domain"
	"github.com/aalvaropc/inferix/internal/ports"
)

const defaultRunsDir = "runs"

type JSONStore struct {
	rootDir     string
	runsDirName string
	writeIndex  bool
	now         func() time.Time
	newID       func() string
}

type Option func(*JSONStore)

// WithIndex enables a simple JSONL index: runs/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

// WithIDSuffix is useful for tests.
func WithIDSuffix(fn func() string) Option {
	return func(s *JSONStore) { s.newID = fn }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	runsDir := cfg.Paths.RunsDir
	if strings.TrimSpace(runsDir) == "" {
		runsDir = defaultRunsDir
	}

	s := &JSONStore{
		rootDir:     root,
		runsDirName: runsDir,
		writeIndex:  false,
		now:         time.Now,
		newID:       shortUUID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.ArtifactStore = (*JSONStore)(nil)

func (s *JSONStore) SaveRun(run domain.AnalysisArtifact) (string, error) {
	dir := filepath.Join(s.rootDir, s.runsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
	}
	ts = ts.UTC()

	toSave := run
	if toSave.StartedAt.IsZero() {
		toSave.StartedAt = ts
	}

	taskPart := run.Result.TaskName
	if strings.TrimSpace(taskPart) == "" {
		taskPart = strings.TrimSuffix(filepath.Base(run.TaskPath), filepath.Ext(run.TaskPath))
	}
	slug := slugify(taskPart)
	if slug == "" {
		slug = "run"
	}

	id := fmt.Sprintf("%s_%s_%s", ts.Format("20060102T150405Z"), slug, s.newID())
	filename := id + ".json"
	path := filepath.Join(dir, filename)

	toSave.ID = id

	b, err := json.MarshalIndent(toSave, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "runstore.marshal",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return "", &domain.OpError{
			Op:   "runstore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", &domain.OpError{
			Op:   "runstore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, id, filename, toSave)
	}

	return id, nil
}

func (s *JSONStore) ListRuns() ([]domain.RunRef, error) {
	dir := filepath.Join(s.rootDir, s.runsDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.OpError{
			Op:   "runstore.list",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	var refs []domain.RunRef
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		p := filepath.Join(dir, e.Name())
		art, loadErr := readArtifact(p)
		if loadErr != nil {
			// One corrupt artifact should not hide the rest.
			continue
		}

		refs = append(refs, domain.RunRef{
			ID:        art.ID,
			Path:      p,
			TaskName:  art.Result.TaskName,
			StartedAt: art.StartedAt,
		})
	}

	sort.Slice(refs, func(i, j int) bool { return refs[i].StartedAt.After(refs[j].StartedAt) })
	return refs, nil
}

func (s *JSONStore) LoadRun(id string) (domain.AnalysisArtifact, error) {
	if strings.ContainsAny(id, `/\`) {
		return domain.AnalysisArtifact{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("run id %q contains path separators", id),
		}
	}

	path := filepath.Join(s.rootDir, s.runsDirName, id+".json")
	art, err := readArtifact(path)
	if err != nil {
		return domain.AnalysisArtifact{}, &domain.OpError{
			Op:   "runstore.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	return art, nil
}

func readArtifact(path string) (domain.AnalysisArtifact, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.AnalysisArtifact{}, err
	}

	var art domain.AnalysisArtifact
	if err := json.Unmarshal(b, &art); err != nil {
		return domain.AnalysisArtifact{}, err
	}
	return art, nil
}

func (s *JSONStore) appendIndex(dir, id, filename string, run domain.AnalysisArtifact) error {
	type idx struct {
		ID        string    `json:"id"`
		File      string    `json:"file"`
		Task      string    `json:"task"`
		Method    string    `json:"method"`
		StartedAt time.Time `json:"started_at"`
	}
	line, err := json.Marshal(idx{
		ID:        id,
		File:      filename,
		Task:      run.Result.TaskName,
		Method:    run.Result.Method,
		StartedAt: run.StartedAt,
	})
	if err != nil {
		return err
	}

	indexPath := filepath.Join(dir, "index.jsonl")
	f, err := os.OpenFile(indexPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, _ = f.Write(append(line, '\n'))
	return nil
}

func shortUUID() string {
	return uuid.NewString()[:8]
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			lastDash = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
