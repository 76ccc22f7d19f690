// Package effort is the fault-isolation boundary for best-effort side
// effects. A wrapped call may fail or panic without affecting the caller's
// primary flow; the failure is logged and captured into an Outcome.
package effort

import (
	"fmt"

	"go.uber.org/zap"
)

// Outcome records the result of one best-effort side effect.
type Outcome struct {
	Name string
	Err  error
}

// OK reports whether the side effect completed without error.
func (o Outcome) OK() bool { return o.Err == nil }

// Try runs fn and captures any error or panic instead of propagating it.
// Failures are logged under name so no error is silently swallowed.
func Try(log *zap.Logger, name string, fn func() error) Outcome {
	err := run(fn)
	if err != nil {
		log.Warn("best-effort side effect failed",
			zap.String("effect", name),
			zap.Error(err),
		)
	}
	return Outcome{Name: name, Err: err}
}

func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
