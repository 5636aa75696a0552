package mfa

import (
	"context"
	"sync"
	"time"
)

// MemorySpentTokens is a process-local SpentTokens. Entries are dropped once
// the token they guard has expired.
type MemorySpentTokens struct {
	mu    sync.Mutex
	spent map[string]time.Time
	now   func() time.Time
}

// NewMemorySpentTokens creates an empty store. now must be the clock tokens
// are issued with; nil means time.Now.
func NewMemorySpentTokens(now func() time.Time) *MemorySpentTokens {
	if now == nil {
		now = time.Now
	}
	return &MemorySpentTokens{
		spent: make(map[string]time.Time),
		now:   now,
	}
}

func (m *MemorySpentTokens) MarkSpent(_ context.Context, id string, until time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, exp := range m.spent {
		if now.After(exp) {
			delete(m.spent, k)
		}
	}

	if _, ok := m.spent[id]; ok {
		return false, nil
	}
	m.spent[id] = until
	return true, nil
}
