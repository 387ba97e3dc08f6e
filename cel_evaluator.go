package envedit

import (
	"fmt"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache wires a ProgramCache into the CEL evaluator.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry wires a FunctionRegistry into the CEL evaluator.
// Registered functions are exposed with one or two dynamic arguments.
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Evaluate(ctx RuleContext, rule string) (any, error) {
	if rule == "" {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("rule must not be empty"))
	}
	program, err := e.loadOrCompile(rule)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, rule, program)
}

func (e *celEvaluator) Compile(rule string) (CompiledRule, error) {
	if rule == "" {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("rule must not be empty"))
	}
	program, err := e.loadOrCompile(rule)
	if err != nil {
		return nil, err
	}
	return &celCompiledRule{
		evaluator: e,
		rule:      rule,
		program:   program,
	}, nil
}

func (e *celEvaluator) loadOrCompile(rule string) (celgo.Program, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(rule); ok {
			if program, ok := cached.(celgo.Program); ok {
				return program, nil
			}
		}
	}

	env, err := e.buildEnv()
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, rule, "", err)
	}
	ast, issues := env.Compile(rule)
	if issues != nil && issues.Err() != nil {
		return nil, wrapEvaluationError(EngineCEL, rule, "", issues.Err())
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, rule, "", err)
	}
	if e.cache != nil {
		e.cache.Set(rule, program)
	}
	return program, nil
}

func (e *celEvaluator) buildEnv() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("entry", celgo.StringType),
		celgo.Variable("index", celgo.IntType),
		celgo.Variable("variable", celgo.StringType),
		celgo.Variable("scope", celgo.StringType),
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("metadata", celgo.MapType(celgo.StringType, celgo.DynType)),
	}
	if e.registry != nil {
		for _, name := range e.registry.Names() {
			opts = append(opts, e.functionDecl(name))
		}
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) functionDecl(name string) celgo.EnvOption {
	return celgo.Function(name,
		celgo.Overload(name+"_dyn",
			[]*celgo.Type{celgo.DynType},
			celgo.DynType,
			celgo.UnaryBinding(func(arg ref.Val) ref.Val {
				return e.call(name, arg)
			}),
		),
		celgo.Overload(name+"_dyn_dyn",
			[]*celgo.Type{celgo.DynType, celgo.DynType},
			celgo.DynType,
			celgo.BinaryBinding(func(lhs, rhs ref.Val) ref.Val {
				return e.call(name, lhs, rhs)
			}),
		),
	)
}

func (e *celEvaluator) call(name string, values ...ref.Val) ref.Val {
	args := make([]any, 0, len(values))
	for _, val := range values {
		args = append(args, val.Value())
	}
	result, err := e.registry.Call(name, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}

func (e *celEvaluator) run(ctx RuleContext, rule string, program celgo.Program) (any, error) {
	binding := ctx.binding()
	binding["index"] = int64(ctx.Index)
	out, _, err := program.Eval(binding)
	if err != nil {
		return nil, wrapEvaluationError(EngineCEL, rule, ctx.Scope.String(), err)
	}
	return out.Value(), nil
}

type celCompiledRule struct {
	evaluator *celEvaluator
	rule      string
	program   celgo.Program
}

func (r *celCompiledRule) Evaluate(ctx RuleContext) (any, error) {
	if r.evaluator == nil {
		return nil, wrapEvaluatorError(EngineCEL, fmt.Errorf("compiled rule missing evaluator"))
	}
	return r.evaluator.run(ctx, r.rule, r.program)
}
