// Package filter evaluates CEL predicates against record rows.
package filter

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"
)

// RowVariable is the name a predicate uses for the current row.
const RowVariable = "row"

// Predicate is a compiled row filter.
type Predicate struct {
	expr string
	prg  cel.Program
}

// newEnv creates the CEL environment shared by every predicate.
func newEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable(RowVariable, cel.MapType(cel.StringType, cel.DynType)),
		celext.Strings(),
		celext.Lists(),
		celext.Math(),
	)
}

// Compile parses and type-checks expr. The expression must yield a bool, for
// example `row.status == "active" && row.team.startsWith("ops")`.
func Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("filter expression is empty")
	}
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("filter %q must return bool, got %s", expr, out)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate against row.
func (p *Predicate) Match(row map[string]any) (bool, error) {
	result, _, err := p.prg.Eval(map[string]any{RowVariable: row})
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	b, ok := result.(types.Bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %s, not bool", p.expr, result.Type().TypeName())
	}
	return bool(b), nil
}

// Rows returns the rows matching p, in order. A nil predicate keeps every row.
func Rows(p *Predicate, rows []map[string]any) ([]map[string]any, error) {
	if p == nil {
		return rows, nil
	}
	out := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		ok, err := p.Match(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if ok {
			out = append(out, row)
		}
	}
	return out, nil
}
