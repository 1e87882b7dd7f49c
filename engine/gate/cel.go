// Package gate evaluates preparation-task gates against the current
// material/tool/document state: the seven named gate types, each task's own
// required_conditions (CEL expressions over that state), and the
// confirm_handover flow that flips a gate's completion conditions.
package gate

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/google/cel-go/cel"
)

const (
	defaultCostLimit = uint64(1000)
	defaultCacheSize = int64(256)
)

// CELEvaluator compiles and runs boolean CEL expressions against a single
// "state" map variable, caching compiled programs so repeated gate
// evaluation (the same condition string across many plan requests) does not
// recompile each time.
type CELEvaluator struct {
	env          *cel.Env
	costLimit    uint64
	programCache *ristretto.Cache[string, cel.Program]
}

// Option configures a CELEvaluator.
type Option func(*CELEvaluator)

// WithCostLimit overrides the per-evaluation CEL cost budget.
func WithCostLimit(limit uint64) Option {
	return func(e *CELEvaluator) { e.costLimit = limit }
}

// WithCacheSize overrides the compiled-program cache's counter budget. The
// cache's max cost scales with it so a small size meaningfully bounds
// memory, not just eviction pressure.
func WithCacheSize(size int64) Option {
	return func(e *CELEvaluator) {
		cache, err := ristretto.NewCache(&ristretto.Config[string, cel.Program]{
			NumCounters: size * 10,
			MaxCost:     size,
			BufferItems: 64,
		})
		if err == nil {
			e.programCache = cache
		}
	}
}

// NewCELEvaluator builds an evaluator whose single declared variable is
// "state", a dynamic map — gate conditions read it as state.tools_ready,
// state.task_complete, and so on.
func NewCELEvaluator(opts ...Option) (*CELEvaluator, error) {
	env, err := cel.NewEnv(cel.Variable("state", cel.MapType(cel.StringType, cel.DynType)))
	if err != nil {
		return nil, fmt.Errorf("gate: building CEL environment: %w", err)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, cel.Program]{
		NumCounters: defaultCacheSize * 10,
		MaxCost:     defaultCacheSize,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("gate: building program cache: %w", err)
	}
	e := &CELEvaluator{env: env, costLimit: defaultCostLimit, programCache: cache}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ValidateExpression compiles expr without running it, surfacing parse or
// type-check failures up front (used when a plan request's gate conditions
// are first accepted).
func (e *CELEvaluator) ValidateExpression(expr string) error {
	_, err := e.compile(expr)
	return err
}

// Evaluate runs expr against state, returning its boolean result. A
// non-boolean result, a compilation failure, or ctx being done are all
// reported as errors with result false.
func (e *CELEvaluator) Evaluate(ctx context.Context, expr string, state map[string]any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("gate: context done before evaluating %q: %w", expr, err)
	}
	prg, err := e.compile(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.ContextEval(ctx, map[string]any{"state": state})
	if err != nil {
		return false, fmt.Errorf("gate: evaluating %q: %w", expr, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("gate: expression %q did not evaluate to a boolean", expr)
	}
	return b, nil
}

func (e *CELEvaluator) compile(expr string) (cel.Program, error) {
	if prg, ok := e.programCache.Get(expr); ok {
		return prg, nil
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("gate: compilation error in %q: %w", expr, issues.Err())
	}
	prg, err := e.env.Program(ast, cel.CostLimit(e.costLimit))
	if err != nil {
		return nil, fmt.Errorf("gate: building program for %q: %w", expr, err)
	}
	e.programCache.Set(expr, prg, 1)
	e.programCache.Wait()
	return prg, nil
}
