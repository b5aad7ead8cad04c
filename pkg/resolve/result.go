package resolve

import (
	"context"
	"fmt"
	"golang.org/x/exp/slices"
	"sync"
)

// Result is the ordered set of addresses produced by one resolution.  It must be released with Close
// once the caller is done reading it; With takes care of this automatically.
type Result struct {
	records []Address
	once    sync.Once
	release func()
	closed  bool
	lock    sync.Mutex
}

// NewResult wraps records in a Result.  The release function, if not nil, runs exactly once, on the
// first call to Close.
func NewResult(records []Address, release func()) *Result {
	return &Result{
		records: records,
		release: release,
	}
}

// Records returns the addresses in resolver order
func (r *Result) Records() []Address {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.closed {
		return nil
	}
	return slices.Clone(r.records)
}

// Len returns the number of records
func (r *Result) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.closed {
		return 0
	}
	return len(r.records)
}

// Close releases the result.  It is safe to call more than once.
func (r *Result) Close() {
	r.once.Do(func() {
		r.lock.Lock()
		r.closed = true
		r.records = nil
		r.lock.Unlock()
		if r.release != nil {
			r.release()
		}
	})
}

// With resolves hostname and calls f with the result, releasing the result on every exit path,
// including a panic in f.  If resolution fails, f is not called.
func With(ctx context.Context, resolver Resolver, hostname string, f func(*Result) error) error {
	res, err := resolver.Resolve(ctx, hostname)
	if res != nil {
		defer res.Close()
	}
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("resolver returned no result for %s", hostname)
	}
	return f(res)
}
