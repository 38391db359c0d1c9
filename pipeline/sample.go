package pipeline

import (
	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/validation"
)

// Sample draws n values uniformly with a reservoir, holding at most n values
// in memory. Two bounds keep it from draining long or infinite sources: at
// most n*budget_factor values are pulled, and once the reservoir is full it
// stops early with probability 1/(stop_factor*n) per pulled value. Fewer than
// n values seen is an INSUFFICIENT_ELEMENTS error.
func (p *Pipeline[T]) Sample(n int, opts ...Option) (_ []T, err error) {
	if p.err != nil {
		return nil, p.err
	}
	if err := validation.New().Positive("n", n).Error(); err != nil {
		return nil, err
	}
	o, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	t := p.terminal()
	if isUnbounded(t.seq) && o.BudgetFactor == nil && o.StopFactor == nil {
		return nil, unsupportedInfinite("sample")
	}

	tr := observability.Track("sample")
	defer func() { tr.End(err) }()

	rng := o.newRand()
	budget := -1
	if o.BudgetFactor != nil {
		budget = n * *o.BudgetFactor
	}
	stopChance := 0.0
	if o.StopFactor != nil {
		stopChance = 1 / float64(*o.StopFactor*n)
	}

	reservoir := make([]T, 0, n)
	seen := 0
	reason := "exhausted"
	for budget < 0 || seen < budget {
		v, ok, err := t.pull()
		if err != nil {
			tr.Pulled(seen)
			return nil, err
		}
		if !ok {
			break
		}
		seen++
		if len(reservoir) < n {
			reservoir = append(reservoir, v)
			continue
		}
		if j := rng.IntN(seen) + 1; j <= n {
			reservoir[j-1] = v
		}
		if stopChance > 0 && rng.Float64() < stopChance {
			reason = "early_stop"
			break
		}
	}
	if budget >= 0 && seen == budget {
		reason = "budget"
	}
	tr.Pulled(seen)
	if l := log(); l.DebugEnabled() {
		l.Debug("reservoir sampled", logger.Fields(
			logger.FieldRequested, n,
			logger.FieldPulled, seen,
			"reason", reason,
		))
	}

	if len(reservoir) < n {
		return nil, errors.InsufficientElements(n, len(reservoir))
	}
	return reservoir, nil
}

// SampleOne draws a single value. See Sample.
func (p *Pipeline[T]) SampleOne(opts ...Option) (T, error) {
	items, err := p.Sample(1, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return items[0], nil
}
