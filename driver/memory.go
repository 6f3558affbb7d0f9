package driver

import (
	"context"
	"sync"
)

// Call records one Exec invocation seen by Memory.
type Call struct {
	SQL  string
	Args []any
}

// Memory is an in-memory Driver that records every Exec call instead
// of talking to a database. Tests enqueue canned Results with Enqueue
// and assert against Calls afterward.
type Memory struct {
	mu        sync.Mutex
	closed    bool
	Calls     []Call
	responses []Result
	err       error
}

// NewMemory returns an empty Memory driver.
func NewMemory() *Memory {
	return &Memory{}
}

// Enqueue queues r to be returned by the next Exec call that doesn't
// have a queued error ahead of it.
func (m *Memory) Enqueue(r Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, r)
}

// FailNext makes the next Exec call return err instead of a queued
// result.
func (m *Memory) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *Memory) Exec(ctx context.Context, sql string, args []any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Result{}, ErrClosed
	}
	m.Calls = append(m.Calls, Call{SQL: sql, Args: args})

	if m.err != nil {
		err := m.err
		m.err = nil
		return Result{}, err
	}
	if len(m.responses) > 0 {
		r := m.responses[0]
		m.responses = m.responses[1:]
		return r, nil
	}
	return Result{Rows: NewStaticRows(nil, nil)}, nil
}

// RunTransaction runs fn against the same Memory driver; Memory has no
// real transaction semantics, so nested calls are simply passed
// through and every Exec call, inside or outside RunTransaction, is
// recorded the same way. Because the tx is the Memory itself, calling
// Close on it closes the Memory.
func (m *Memory) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Driver) error) error {
	return fn(ctx, m)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
