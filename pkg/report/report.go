// Package report delivers scored shots to their consumers.
package report

import (
	"context"
	"errors"

	"github.com/itohio/goetarget/pkg/shot"
)

// Reporter receives every shot exactly once, after scoring.
type Reporter interface {
	Report(ctx context.Context, rec shot.Record, res shot.Result) error
}

// Func adapts a function to a Reporter.
type Func func(ctx context.Context, rec shot.Record, res shot.Result) error

func (f Func) Report(ctx context.Context, rec shot.Record, res shot.Result) error {
	return f(ctx, rec, res)
}

// Multi fans a shot out to several reporters. Every reporter is called even
// when an earlier one fails; the errors are joined.
type Multi []Reporter

var _ Reporter = Multi(nil)

func (m Multi) Report(ctx context.Context, rec shot.Record, res shot.Result) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Report(ctx, rec, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every shot.
var Discard Reporter = Func(func(context.Context, shot.Record, shot.Result) error { return nil })
