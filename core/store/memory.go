package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Memory is a Store held in process memory. It is used when no database is
// reachable and in tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string]map[string][]byte
	order map[string][]string
	log   *zap.Logger
}

// NewMemory creates an empty Memory store.
func NewMemory(opts ...Option) *Memory {
	o := buildOptions(opts)
	return &Memory{
		items: make(map[string]map[string][]byte),
		order: make(map[string][]string),
		log:   o.log,
	}
}

// Put stores raw under key without touching its Id. Seeds legacy data.
func (m *Memory) Put(namespace, key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(namespace, key, raw)
}

func (m *Memory) LoadAll(ctx context.Context, namespace string) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := slices.Clone(m.order[namespace])
	out := make([]json.RawMessage, 0, len(keys))
	for _, key := range keys {
		id, body, changed, err := ensureID(key, m.items[namespace][key])
		if err != nil {
			warnCorrupt(m.log, namespace, key, err)
			out = append(out, slices.Clone(m.items[namespace][key]))
			continue
		}
		if changed || id != key {
			m.deleteLocked(namespace, key)
			m.putLocked(namespace, id, body)
		}
		out = append(out, slices.Clone(body))
	}
	return out, nil
}

func (m *Memory) Load(ctx context.Context, namespace, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.items[namespace][id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(body), nil
}

func (m *Memory) Save(ctx context.Context, namespace, id string, item any) error {
	body, err := encode(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(namespace, id, slices.Clone(body))
	return nil
}

func (m *Memory) Delete(ctx context.Context, namespace, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(namespace, id)
	return nil
}

func (m *Memory) putLocked(namespace, key string, body []byte) {
	if m.items[namespace] == nil {
		m.items[namespace] = make(map[string][]byte)
	}
	if _, ok := m.items[namespace][key]; !ok {
		m.order[namespace] = append(m.order[namespace], key)
	}
	m.items[namespace][key] = body
}

func (m *Memory) deleteLocked(namespace, key string) {
	if _, ok := m.items[namespace][key]; !ok {
		return
	}
	delete(m.items[namespace], key)
	m.order[namespace] = slices.DeleteFunc(m.order[namespace], func(k string) bool { return k == key })
}
