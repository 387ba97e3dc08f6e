package envedit

import (
	"fmt"
	"strings"
	"time"
)

// RuleContext carries the bindings visible to a rule evaluated against one
// path entry.
type RuleContext struct {
	Entry    string
	Index    int
	Variable string
	Scope    Scope
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

// binding returns the variables exposed to every engine.
func (ctx RuleContext) binding() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"entry":    ctx.Entry,
		"index":    ctx.Index,
		"variable": ctx.Variable,
		"scope":    ctx.Scope.String(),
		"now":      *ctx.Now,
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
	}
}

// Evaluator executes rules against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, rule string) (any, error)
	Compile(rule string) (CompiledRule, error)
}

// CompiledRule represents a reusable rule program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled rule programs keyed by rule text.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache used by the default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *editorConfig) {
		cfg.programCache = cache
	}
}

const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// NewEvaluator returns the evaluator for engine ("expr", "cel" or "js").
// The js engine is only available when built with the js_eval tag.
func NewEvaluator(engine string, cache ProgramCache, registry *FunctionRegistry) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineExpr:
		return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry)), nil
	case EngineCEL:
		return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(registry)), nil
	case EngineJS:
		e := NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(registry))
		if e == nil {
			return nil, fmt.Errorf("%w: js engine requires the js_eval build tag", ErrNoEvaluator)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unknown engine %q", ErrNoEvaluator, engine)
	}
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return EngineExpr
	case *celEvaluator:
		return EngineCEL
	default:
		if isJSEvaluator(e) {
			return EngineJS
		}
		return "custom"
	}
}

func ruleResult(engine, rule string, ctx RuleContext, value any) (bool, error) {
	matched, ok := value.(bool)
	if !ok {
		return false, wrapEvaluationError(engine, rule, ctx.Scope.String(),
			fmt.Errorf("%w: got %T", ErrRuleResult, value))
	}
	return matched, nil
}
