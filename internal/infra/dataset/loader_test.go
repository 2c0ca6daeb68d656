package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aalvaropc/inferix/internal/domain"
)

func TestLoad_RawColumnJSON(t *testing.T) {
	l := NewLoader()

	ds, err := l.Load(domain.DatasetSource{Raw: `{"x":[1,2,3],"y":[4,5,6]}`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ds.Len() != 3 {
		t.Errorf("len = %d, want 3", ds.Len())
	}
	col, ok := ds.Column("y")
	if !ok || col[2] != 6 {
		t.Errorf("Column(y) = %v, %v", col, ok)
	}
}

func TestLoad_RawRecordJSON(t *testing.T) {
	l := NewLoader()

	ds, err := l.Load(domain.DatasetSource{Raw: `[{"x":1,"y":4},{"x":2,"y":5}]`})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("len = %d, want 2", ds.Len())
	}
	col, _ := ds.Column("x")
	if col[1] != 2 {
		t.Errorf("x = %v", col)
	}
}

func TestLoad_RawFallsBackToCSVPath(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "data.csv")
	csv := "x,y\n1,4\n2,5\n3,6\n"
	if err := os.WriteFile(p, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	ds, err := l.Load(domain.DatasetSource{Raw: p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 3 {
		t.Errorf("len = %d, want 3", ds.Len())
	}
}

func TestLoad_RawNeitherJSONNorPath(t *testing.T) {
	l := NewLoader()

	_, err := l.Load(domain.DatasetSource{Raw: "definitely not json"})
	if !domain.IsKind(err, domain.KindInvalidData) {
		t.Fatalf("expected invalid_data, got %v", err)
	}
}

func TestLoad_EmptySource(t *testing.T) {
	l := NewLoader()

	_, err := l.Load(domain.DatasetSource{})
	if !domain.IsKind(err, domain.KindInvalidData) {
		t.Fatalf("expected invalid_data, got %v", err)
	}
}

func TestLoad_FileRelativeToRoot(t *testing.T) {
	tmp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmp, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(tmp, "data", "d.csv")
	if err := os.WriteFile(p, []byte("a\n1\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(WithRootDir(tmp))
	ds, err := l.Load(domain.DatasetSource{File: filepath.Join("data", "d.csv")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("len = %d, want 2", ds.Len())
	}
}

func TestLoad_CSVNonNumericCell(t *testing.T) {
	tmp := t.TempDir()
	p := filepath.Join(tmp, "bad.csv")
	if err := os.WriteFile(p, []byte("a,b\n1,x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader()
	_, err := l.Load(domain.DatasetSource{File: p})
	if !domain.IsKind(err, domain.KindInvalidData) {
		t.Fatalf("expected invalid_data, got %v", err)
	}
}

func TestLoad_CSVMissing(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(domain.DatasetSource{File: filepath.Join(t.TempDir(), "nope.csv")})
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestLoad_InlineColumnsLengthMismatch(t *testing.T) {
	l := NewLoader()
	_, err := l.Load(domain.DatasetSource{Inline: map[string][]float64{
		"a": {1, 2},
		"b": {1},
	}})
	if !domain.IsKind(err, domain.KindInvalidData) {
		t.Fatalf("expected invalid_data, got %v", err)
	}
}

func TestLoad_InlineColumns(t *testing.T) {
	l := NewLoader()
	ds, err := l.Load(domain.DatasetSource{Inline: map[string][]float64{
		"b": {3, 4},
		"a": {1, 2},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Names[0] != "a" || ds.Names[1] != "b" {
		t.Errorf("names = %v, want sorted", ds.Names)
	}
}
