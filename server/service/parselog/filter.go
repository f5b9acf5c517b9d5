package parselog

import (
	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/hrygo/yotei/store"
)

// filterEnv declares the variables a list filter may reference.
var filterEnv = mustFilterEnv()

func mustFilterEnv() *cel.Env {
	env, err := cel.NewEnv(
		cel.Variable("user_id", cel.StringType),
		cel.Variable("input_text", cel.StringType),
		cel.Variable("success", cel.BoolType),
		cel.Variable("title", cel.StringType),
		cel.Variable("created_ts", cel.IntType),
		cel.Variable("user_accepted", cel.BoolType),
	)
	if err != nil {
		panic(err)
	}
	return env
}

// FilterError reports a filter expression that could not be compiled or
// evaluated.
type FilterError struct {
	Expr string
	Err  error
}

func (e *FilterError) Error() string {
	return e.Err.Error()
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// Filter is a compiled boolean CEL expression over parse log fields, e.g.
// `success && title.contains("会議")` or `created_ts > 1709251200`.
type Filter struct {
	expr    string
	program cel.Program
}

// CompileFilter parses and type-checks expr. The expression must be boolean.
func CompileFilter(expr string) (*Filter, error) {
	ast, issues := filterEnv.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, &FilterError{Expr: expr, Err: errors.Wrap(issues.Err(), "failed to compile filter")}
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, &FilterError{Expr: expr, Err: errors.Errorf("filter must be a boolean expression, got %s", ast.OutputType())}
	}
	program, err := filterEnv.Program(ast)
	if err != nil {
		return nil, &FilterError{Expr: expr, Err: errors.Wrap(err, "failed to build filter program")}
	}
	return &Filter{expr: expr, program: program}, nil
}

// Match evaluates the filter against log. An unset user_accepted reads as false.
func (f *Filter) Match(log *store.ParseLog) (bool, error) {
	accepted := log.UserAccepted != nil && *log.UserAccepted
	out, _, err := f.program.Eval(map[string]any{
		"user_id":       log.UserID,
		"input_text":    log.InputText,
		"success":       log.Success,
		"title":         log.Title,
		"created_ts":    log.CreatedTs,
		"user_accepted": accepted,
	})
	if err != nil {
		return false, &FilterError{Expr: f.expr, Err: errors.Wrap(err, "failed to evaluate filter")}
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, &FilterError{Expr: f.expr, Err: errors.Errorf("filter returned %T, want bool", out.Value())}
	}
	return matched, nil
}
