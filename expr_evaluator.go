package envedit

import (
	"fmt"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache wires a ProgramCache into the expr evaluator.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry wires a FunctionRegistry into the expr evaluator.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

// exprEvaluator executes rules using github.com/expr-lang/expr.
type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs an Evaluator backed by expr-lang/expr.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Evaluate compiles (or loads from cache) and runs rule against ctx.
func (e *exprEvaluator) Evaluate(ctx RuleContext, rule string) (any, error) {
	if rule == "" {
		return nil, wrapEvaluatorError(EngineExpr, fmt.Errorf("rule must not be empty"))
	}
	program, err := e.loadOrCompile(rule)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, rule, program)
}

func (e *exprEvaluator) Compile(rule string) (CompiledRule, error) {
	if rule == "" {
		return nil, wrapEvaluatorError(EngineExpr, fmt.Errorf("rule must not be empty"))
	}
	program, err := e.loadOrCompile(rule)
	if err != nil {
		return nil, err
	}
	return &exprCompiledRule{
		evaluator: e,
		program:   program,
		rule:      rule,
	}, nil
}

func (e *exprEvaluator) loadOrCompile(rule string) (*exprvm.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(rule); ok {
			if program, ok := cached.(*exprvm.Program); ok {
				return program, nil
			}
		}
	}
	options := []exprlang.Option{
		exprlang.Env(RuleContext{}.binding()),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registryNames() {
		options = append(options, exprlang.Function(name, e.registryFunction(name)))
	}
	program, err := exprlang.Compile(rule, options...)
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, rule, "", err)
	}
	if e.cache != nil {
		e.cache.Set(rule, program)
	}
	return program, nil
}

func (e *exprEvaluator) run(ctx RuleContext, rule string, program *exprvm.Program) (any, error) {
	result, err := exprlang.Run(program, ctx.binding())
	if err != nil {
		return nil, wrapEvaluationError(EngineExpr, rule, ctx.Scope.String(), err)
	}
	return result, nil
}

type exprCompiledRule struct {
	evaluator *exprEvaluator
	program   *exprvm.Program
	rule      string
}

func (r *exprCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError(EngineExpr, fmt.Errorf("compiled rule missing evaluator"))
	}
	if r.program == nil {
		return r.evaluator.Evaluate(ctx, r.rule)
	}
	return r.evaluator.run(ctx, r.rule, r.program)
}

func (e *exprEvaluator) registryNames() []string {
	if e == nil || e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprEvaluator) registryFunction(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
