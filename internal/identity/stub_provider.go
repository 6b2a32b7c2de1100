package identity

import (
	"context"
	"sync"
	"time"
)

// StubProvider simulates the external popup-based provider (replace with a
// real integration). SignIn delivers a configured record asynchronously,
// mirroring how provider outcomes arrive as later session events.
type StubProvider struct {
	mu       sync.Mutex
	record   ProviderRecord
	current  *ProviderRecord
	delay    time.Duration
	onChange func(*ProviderRecord)
}

func NewStubProvider(record ProviderRecord, delay time.Duration) *StubProvider {
	return &StubProvider{record: record, delay: delay}
}

// OnSessionChange registers the sink for session events, normally
// Adapter.HandleSessionEvent. The current session is reported to the new
// sink right away, so a fresh visitor resolves to signed-out without
// waiting for a command.
func (p *StubProvider) OnSessionChange(fn func(*ProviderRecord)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
	go p.emitCurrent()
}

func (p *StubProvider) SignIn(context.Context) error {
	go p.emitLater(&p.record)
	return nil
}

func (p *StubProvider) SignOut(context.Context) error {
	go p.emitLater(nil)
	return nil
}

// Deliveries run under the lock so the initial report can never overtake a
// later event with a stale session.
func (p *StubProvider) emitCurrent() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.onChange != nil {
		p.onChange(p.current)
	}
}

func (p *StubProvider) emitLater(rec *ProviderRecord) {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = rec
	if p.onChange != nil {
		p.onChange(rec)
	}
}
