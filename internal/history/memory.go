package history

import (
	"context"
	"slices"
	"sync"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
)

type MemoryStore struct {
	size  int
	mu    sync.Mutex
	lists map[consts.HistoryKind][]string
}

func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = consts.HistorySize
	}
	return &MemoryStore{
		size:  size,
		lists: make(map[consts.HistoryKind][]string),
	}
}

func (m *MemoryStore) Add(_ context.Context, kind consts.HistoryKind, value string) error {
	value = clean(value)
	if value == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	list := slices.DeleteFunc(m.lists[kind], func(v string) bool { return v == value })
	list = append([]string{value}, list...)
	if len(list) > m.size {
		list = list[:m.size]
	}
	m.lists[kind] = list
	return nil
}

func (m *MemoryStore) Recent(_ context.Context, kind consts.HistoryKind, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[kind]
	n = limit(n, len(list))
	return slices.Clone(list[:n]), nil
}

func (m *MemoryStore) Clear(_ context.Context, kind consts.HistoryKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.lists, kind)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
