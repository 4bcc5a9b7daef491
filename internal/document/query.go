package document

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Query evaluates a JSONPath expression against an extracted document.
// The document is parsed generically so expressions can reach into any
// part of the schema, including tagged-union payloads.
func Query(docPath, expr string) ([]any, error) {
	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, err
	}
	data, err := oj.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", docPath, err)
	}
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", expr, err)
	}
	return x.Get(data), nil
}

// FormatResults renders query results as indented JSON.
func FormatResults(results []any) string {
	return oj.JSON(results, 2)
}
