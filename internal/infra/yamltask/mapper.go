package yamltask

import (
	"fmt"
	"strings"

	apptemplate "github.com/aalvaropc/inferix/internal/app/template"
	"github.com/aalvaropc/inferix/internal/domain"
)

func mapAndValidate(path string, yt yamlTask, env map[string]string) (domain.TaskSpec, error) {
	if strings.TrimSpace(yt.Name) == "" {
		return domain.TaskSpec{}, invalidField(path, "name", "task name is required")
	}

	if len(yt.Graph.Edges) == 0 {
		return domain.TaskSpec{}, invalidField(path, "graph.edges", "at least one edge is required")
	}
	if len(yt.Treatments) == 0 {
		return domain.TaskSpec{}, invalidField(path, "treatments", "at least one treatment is required")
	}
	if len(yt.Outcomes) == 0 {
		return domain.TaskSpec{}, invalidField(path, "outcomes", "at least one outcome is required")
	}

	if yt.Data.File == "" && len(yt.Data.Inline) == 0 {
		return domain.TaskSpec{}, invalidField(path, "data", "either data.file or data.inline is required")
	}
	if yt.Data.File != "" && len(yt.Data.Inline) > 0 {
		return domain.TaskSpec{}, invalidField(path, "data", "data.file and data.inline are mutually exclusive")
	}

	spec := domain.TaskSpec{
		Name:       yt.Name,
		Method:     strings.TrimSpace(yt.Method),
		Treatments: append([]string(nil), yt.Treatments...),
		Outcomes:   append([]string(nil), yt.Outcomes...),
		Graph:      make(domain.GraphSpec, 0, len(yt.Graph.Edges)),
	}

	for i, pair := range yt.Graph.Edges {
		if len(pair) != 2 {
			return domain.TaskSpec{}, invalidField(path, fmt.Sprintf("graph.edges[%d]", i), "edge must be a [from, to] pair")
		}
		if strings.TrimSpace(pair[0]) == "" || strings.TrimSpace(pair[1]) == "" {
			return domain.TaskSpec{}, invalidField(path, fmt.Sprintf("graph.edges[%d]", i), "edge endpoints must be non-empty")
		}
		spec.Graph = append(spec.Graph, domain.Edge{From: pair[0], To: pair[1]})
	}

	if yt.Data.File != "" {
		file, err := apptemplate.RenderString(yt.Data.File, env)
		if err != nil {
			return domain.TaskSpec{}, &domain.OpError{
				Op:   "yamltask.map",
				Kind: domain.KindInvalidConfig,
				Path: path,
				Err:  fmt.Errorf("data.file: %w", err),
			}
		}
		spec.Data = domain.DatasetSource{File: file}
	} else {
		inline := make(map[string][]float64, len(yt.Data.Inline))
		for k, v := range yt.Data.Inline {
			inline[k] = append([]float64(nil), v...)
		}
		spec.Data = domain.DatasetSource{Inline: inline}
	}

	return spec, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamltask.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("%s: %s", field, msg),
	}
}
