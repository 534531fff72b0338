package contactsync_test

import (
	"context"
	"sync"

	"github.com/jhoicas/contact-sync/internal/domain/entity"
)

// fakeSource devuelve contactos fijos o un error.
type fakeSource struct {
	contacts []*entity.Contact
	err      error
	calls    int
}

func (f *fakeSource) ListContacts(ctx context.Context) ([]*entity.Contact, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.contacts, nil
}

// fakeLedger registra las llamadas a ListarClientes y AlterarCliente.
type fakeLedger struct {
	byCode    map[string][]*entity.LedgerCustomer
	listErr   error
	updateErr error

	listed  []string
	updated []*entity.LedgerCustomer
}

func (f *fakeLedger) ListCustomers(ctx context.Context, code string) ([]*entity.LedgerCustomer, error) {
	f.listed = append(f.listed, code)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byCode[code], nil
}

func (f *fakeLedger) UpdateCustomer(ctx context.Context, c *entity.LedgerCustomer) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *c
	f.updated = append(f.updated, &cp)
	return nil
}

// memoryRuns implementación en memoria de repository.SyncRunRepository.
type memoryRuns struct {
	mu     sync.Mutex
	runs   map[string]*entity.SyncRun
	order  []string
	events map[string][]*entity.SyncEvent
	err    error
}

func newMemoryRuns() *memoryRuns {
	return &memoryRuns{runs: map[string]*entity.SyncRun{}, events: map[string][]*entity.SyncEvent{}}
}

func (m *memoryRuns) CreateRun(ctx context.Context, run *entity.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *run
	m.runs[run.ID] = &cp
	m.order = append(m.order, run.ID)
	return nil
}

func (m *memoryRuns) FinishRun(ctx context.Context, run *entity.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *run
	m.runs[run.ID] = &cp
	return nil
}

func (m *memoryRuns) AddEvent(ctx context.Context, ev *entity.SyncEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *ev
	m.events[ev.RunID] = append(m.events[ev.RunID], &cp)
	return nil
}

func (m *memoryRuns) GetRun(ctx context.Context, id string) (*entity.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runs[id], nil
}

func (m *memoryRuns) ListRuns(ctx context.Context, limit, offset int) ([]*entity.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.SyncRun
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.runs[m.order[i]])
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryRuns) ListEvents(ctx context.Context, runID string) ([]*entity.SyncEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[runID], nil
}
