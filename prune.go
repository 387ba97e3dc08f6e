package envedit

import (
	"context"
	"time"
)

// PathSelect returns the entries of the path variable for which rule
// evaluates to true. Nothing is written.
func (e *Editor) PathSelect(ctx context.Context, scope Scope, rule string) ([]string, error) {
	if !scope.Valid() {
		return nil, nil
	}
	v, err := e.Open(ctx, scope, e.cfg.pathVariable)
	if err != nil {
		return nil, err
	}
	matched, _, err := e.partition(v, rule)
	if err != nil {
		return nil, err
	}
	return matched, nil
}

// PathPrune removes every entry of the path variable for which rule
// evaluates to true and returns the number removed. The value is persisted
// once, and only when something was removed.
func (e *Editor) PathPrune(ctx context.Context, scope Scope, rule string) (int, error) {
	if !scope.Valid() {
		return 0, nil
	}
	v, err := e.Open(ctx, scope, e.cfg.pathVariable)
	if err != nil {
		return 0, err
	}
	matched, kept, err := e.partition(v, rule)
	if err != nil {
		return 0, err
	}
	if len(matched) == 0 {
		return 0, nil
	}
	if err := v.Set(ctx, JoinTokens(kept)); err != nil {
		return 0, err
	}
	return len(matched), nil
}

func (e *Editor) partition(v *Variable, rule string) (matched, kept []string, err error) {
	evaluator, err := e.resolveEvaluator()
	if err != nil {
		return nil, nil, err
	}
	engine := evaluatorEngineName(evaluator)
	compiled, err := evaluator.Compile(rule)
	if err != nil {
		err = wrapEvaluationError(engine, rule, v.Scope().String(), err)
		e.cfg.evaluatorLogger.LogEvaluation(EvaluatorLogEvent{
			Engine: engine,
			Rule:   rule,
			Scope:  v.Scope().String(),
			Err:    err,
		})
		return nil, nil, err
	}

	now := e.cfg.now()
	for i, entry := range SplitTokens(v.Value()) {
		ruleCtx := RuleContext{
			Entry:    entry,
			Index:    i,
			Variable: v.Name(),
			Scope:    v.Scope(),
			Now:      &now,
		}
		start := time.Now()
		value, evalErr := compiled.Evaluate(ruleCtx)
		var ok bool
		if evalErr == nil {
			ok, evalErr = ruleResult(engine, rule, ruleCtx, value)
		} else {
			evalErr = wrapEvaluationError(engine, rule, ruleCtx.Scope.String(), evalErr)
		}
		e.cfg.evaluatorLogger.LogEvaluation(EvaluatorLogEvent{
			Engine:   engine,
			Rule:     rule,
			Scope:    ruleCtx.Scope.String(),
			Entry:    entry,
			Duration: time.Since(start),
			Err:      evalErr,
		})
		if evalErr != nil {
			return nil, nil, evalErr
		}
		if ok {
			matched = append(matched, entry)
		} else {
			kept = append(kept, entry)
		}
	}
	return matched, kept, nil
}

func (e *Editor) resolveEvaluator() (Evaluator, error) {
	if e.cfg.evaluator != nil {
		return e.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if e.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(e.cfg.programCache))
	}
	if e.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(e.cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	e.cfg.evaluator = evaluator
	return evaluator, nil
}
