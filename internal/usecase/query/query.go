// Package query evaluates JSONPath expressions against stored run
// artifacts, so that specific estimates can be pulled out of a result
// document without piping through external tools.
package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/aalvaropc/inferix/internal/domain"
)

// Apply marshals doc and evaluates the JSONPath expression against it.
// The result is rendered as a string: scalars verbatim, composites as
// compact JSON.
func Apply(doc any, expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", &domain.OpError{
			Op:   "query.apply",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("empty jsonpath expression"),
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", &domain.OpError{Op: "query.apply", Kind: domain.KindExecution, Err: err}
	}
	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return "", &domain.OpError{Op: "query.apply", Kind: domain.KindExecution, Err: err}
	}

	val, err := jsonpath.Get(expr, tree)
	if err != nil {
		return "", &domain.OpError{
			Op:   "query.apply",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("jsonpath %q: %w", expr, err),
		}
	}

	if isEmptyValue(val) {
		return "", &domain.OpError{
			Op:   "query.apply",
			Kind: domain.KindNotFound,
			Err:  fmt.Errorf("jsonpath %q matched nothing", expr),
		}
	}

	return toString(val)
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	// jsonpath commonly wraps a single match in a slice
	if arr, ok := v.([]any); ok && len(arr) == 1 {
		return toString(arr[0])
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool:
		return fmt.Sprint(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", &domain.OpError{Op: "query.apply", Kind: domain.KindExecution, Err: err}
		}
		return string(b), nil
	}
}
