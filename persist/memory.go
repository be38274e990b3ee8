package persist

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
)

// Memory keeps collections as JSON in a map. FailSaves makes every Save of the
// named collections fail, to exercise error paths.
type Memory struct {
	mu        sync.Mutex
	docs      map[string][]byte
	saves     map[string]int
	FailSaves map[string]error
}

func NewMemory() *Memory {
	return &Memory{
		docs:      make(map[string][]byte),
		saves:     make(map[string]int),
		FailSaves: make(map[string]error),
	}
}

func (m *Memory) Load(_ context.Context, name string, v any) (bool, error) {
	m.mu.Lock()
	b, ok := m.docs[name]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, errors.Wrapf(json.Unmarshal(b, v), "decode %s", name)
}

func (m *Memory) Save(_ context.Context, name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailSaves[name]; ok {
		return errors.Wrapf(err, "save %s", name)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	m.docs[name] = b
	m.saves[name]++
	return nil
}

// Saves reports how many successful writes name has received.
func (m *Memory) Saves(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves[name]
}
