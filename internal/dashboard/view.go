// Package dashboard holds the state of the three analytics views. Each view
// owns its inputs, busy flag, last result and error message; nothing is
// shared between views.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/dyike/stocklyzer/internal/models"
)

// ErrStale is returned by Submit when a newer submission on the same view
// started before this one completed. The stale outcome is not applied.
var ErrStale = errors.New("result discarded: a newer request was issued")

type CAPMService interface {
	CalculateCAPM(ctx context.Context, req models.CAPMRequest) (*models.CAPMResponse, error)
}

type AnalysisService interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error)
}

type PredictionService interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error)
}

// Snapshot is a consistent copy of a view's request bookkeeping.
type Snapshot[T any] struct {
	Loading bool
	Result  *T
	Error   string
}

// tracker tags each submission with an increasing sequence number so that
// only the latest one may write its outcome. Callers hold mu.
type tracker[T any] struct {
	mu      sync.Mutex
	seq     uint64
	loading bool
	result  *T
	errMsg  string
}

func (t *tracker[T]) begin() uint64 {
	t.seq++
	t.loading = true
	t.errMsg = ""
	return t.seq
}

func (t *tracker[T]) finish(id uint64, res *T, err error) error {
	if id != t.seq {
		return ErrStale
	}
	t.loading = false
	if err != nil {
		t.errMsg = err.Error()
		return err
	}
	t.result = res
	return nil
}

func (t *tracker[T]) reject(err error) error {
	t.errMsg = err.Error()
	return err
}

func (t *tracker[T]) snapshot() Snapshot[T] {
	return Snapshot[T]{Loading: t.loading, Result: t.result, Error: t.errMsg}
}

// run validates under the lock, releases it for the network call and
// applies the outcome only if id is still the latest submission.
func run[Req, Resp any](ctx context.Context, t *tracker[Resp], build func() (Req, error), call func(context.Context, Req) (*Resp, error)) (*Resp, error) {
	t.mu.Lock()
	req, err := build()
	if err != nil {
		err = t.reject(err)
		t.mu.Unlock()
		return nil, err
	}
	id := t.begin()
	t.mu.Unlock()

	res, err := call(ctx, req)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.finish(id, res, err); err != nil {
		return nil, err
	}
	return res, nil
}
