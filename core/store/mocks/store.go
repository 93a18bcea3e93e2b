package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of store.Store.
type Store struct {
	mock.Mock
}

func (m *Store) LoadAll(ctx context.Context, namespace string) ([]json.RawMessage, error) {
	args := m.Called(ctx, namespace)
	if items, ok := args.Get(0).([]json.RawMessage); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Load(ctx context.Context, namespace, id string) (json.RawMessage, error) {
	args := m.Called(ctx, namespace, id)
	if raw, ok := args.Get(0).(json.RawMessage); ok {
		return raw, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Store) Save(ctx context.Context, namespace, id string, item any) error {
	args := m.Called(ctx, namespace, id, item)
	return args.Error(0)
}

func (m *Store) Delete(ctx context.Context, namespace, id string) error {
	args := m.Called(ctx, namespace, id)
	return args.Error(0)
}
