package diagnostics

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Latest keeps the most recent response in memory for the debug listener.
type Latest struct {
	mu  sync.RWMutex
	raw []byte
	at  time.Time
	now func() time.Time
}

// NewLatest returns an empty Latest sink.
func NewLatest() *Latest {
	return &Latest{now: time.Now}
}

// Record implements Sink.
func (l *Latest) Record(_ context.Context, raw []byte) error {
	cp := append([]byte(nil), raw...)
	l.mu.Lock()
	l.raw, l.at = cp, l.now()
	l.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the last response and when it was recorded.
func (l *Latest) Snapshot() ([]byte, time.Time, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.raw == nil {
		return nil, time.Time{}, false
	}
	return append([]byte(nil), l.raw...), l.at, true
}

// Multi fans a response out to several sinks. Every sink is called; errors are joined.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s == nil {
			continue
		}
		if _, nop := s.(Nop); nop {
			continue
		}
		out = append(out, s)
	}
	switch len(out) {
	case 0:
		return Nop{}
	case 1:
		return out[0]
	}
	return out
}

type multi []Sink

func (m multi) Record(ctx context.Context, raw []byte) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
