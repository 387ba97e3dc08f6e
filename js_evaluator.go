//go:build js_eval

package envedit

import (
	"fmt"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEvaluator constructs an Evaluator backed by goja.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := applyJSEvaluatorOptions(opts)
	return &jsEvaluator{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *jsEvaluator) Evaluate(ctx RuleContext, rule string) (any, error) {
	if rule == "" {
		return nil, wrapEvaluatorError(EngineJS, fmt.Errorf("rule must not be empty"))
	}
	program, err := e.loadOrCompile(rule)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, rule, program)
}

func (e *jsEvaluator) Compile(rule string) (CompiledRule, error) {
	if rule == "" {
		return nil, wrapEvaluatorError(EngineJS, fmt.Errorf("rule must not be empty"))
	}
	program, err := e.loadOrCompile(rule)
	if err != nil {
		return nil, err
	}
	return &jsCompiledRule{
		evaluator: e,
		rule:      rule,
		program:   program,
	}, nil
}

func (e *jsEvaluator) loadOrCompile(rule string) (*goja.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(rule); ok {
			if program, ok := cached.(*goja.Program); ok {
				return program, nil
			}
		}
	}
	program, err := goja.Compile("", wrapRule(rule), false)
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, rule, "", err)
	}
	if e.cache != nil {
		e.cache.Set(rule, program)
	}
	return program, nil
}

func (e *jsEvaluator) run(ctx RuleContext, rule string, program *goja.Program) (any, error) {
	vm := goja.New()
	for key, value := range ctx.binding() {
		if err := vm.Set(key, value); err != nil {
			return nil, wrapEvaluationError(EngineJS, rule, ctx.Scope.String(), err)
		}
	}
	if e.registry != nil {
		for _, name := range e.registry.Names() {
			fn := name
			if err := vm.Set(fn, func(arguments ...any) (any, error) {
				return e.registry.Call(fn, arguments...)
			}); err != nil {
				return nil, wrapEvaluationError(EngineJS, rule, ctx.Scope.String(), err)
			}
		}
	}
	value, err := vm.RunProgram(program)
	if err != nil {
		return nil, wrapEvaluationError(EngineJS, rule, ctx.Scope.String(), err)
	}
	return value.Export(), nil
}

func wrapRule(rule string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", rule)
}

type jsCompiledRule struct {
	evaluator *jsEvaluator
	rule      string
	program   *goja.Program
}

func (r *jsCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError(EngineJS, fmt.Errorf("compiled rule missing evaluator"))
	}
	return r.evaluator.run(ctx, r.rule, r.program)
}

func jsEvaluatorAvailable() bool {
	return true
}

func isJSEvaluator(e Evaluator) bool {
	_, ok := e.(*jsEvaluator)
	return ok
}
