package envedit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyText is returned by Cut when the search text is empty.
	ErrEmptyText = errors.New("envedit: text must not be empty")
	// ErrEmptyToken is returned by path operations given an empty token.
	ErrEmptyToken = errors.New("envedit: path token must not be empty")
	// ErrStoreRequired indicates an editor or variable was built without a store.
	ErrStoreRequired = errors.New("envedit: store is required")
	// ErrRuleResult indicates a rule produced something other than a boolean.
	ErrRuleResult = errors.New("envedit: rule must evaluate to a boolean")
	// ErrNoEvaluator indicates the requested rule engine is unavailable.
	ErrNoEvaluator = errors.New("envedit: evaluator not configured")
)

// StoreError reports a failed store access for one variable.
type StoreError struct {
	Op  string
	Ref Ref
	Err error
}

func (e *StoreError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("envedit: store %s %s: %v", e.Op, e.Ref.Identifier(), e.Err)
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapStoreError(op string, ref Ref, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Ref: ref, Err: err}
}

// EvaluationError captures rule engine metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Rule   string
	Scope  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("envedit: %s evaluator %s scope=%s: %v", e.Engine, describeRule(e.Rule), e.Scope, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeRule(rule string) string {
	if rule == "" {
		return "rule=<empty>"
	}
	return fmt.Sprintf("rule=%q", rule)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "envedit:") {
		return err
	}
	return fmt.Errorf("envedit: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, rule, scope string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Rule == "" {
			evalErr.Rule = rule
		}
		if evalErr.Scope == "" {
			evalErr.Scope = scope
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Rule:   rule,
		Scope:  scope,
		Err:    err,
	}
}
