package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/tsawler/menudoc/model"
)

// Memory keeps documents as encoded JSON, so every Load decodes a fresh
// copy and exercises the same wire format as the other stores.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
	now  Clock
	path string // snapshot file; empty disables Flush
}

// MemoryOption configures a Memory store
type MemoryOption func(*Memory)

// WithClock sets the clock used for UpdatedAt
func WithClock(c Clock) MemoryOption {
	return func(m *Memory) { m.now = c }
}

// NewMemory creates an empty store
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{docs: make(map[string][]byte), now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OpenMemory creates a store persisted to the snapshot file at path. The
// file is read if it exists and written by Flush.
func OpenMemory(path string, opts ...MemoryOption) (*Memory, error) {
	m := NewMemory(opts...)
	m.path = path

	docs, err := readSnapshot(path)
	if err != nil {
		return nil, fmt.Errorf("store: reading snapshot %s: %w", path, err)
	}
	for _, d := range docs {
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("store: snapshot document %s: %w", d.ID, err)
		}
		m.docs[d.ID] = raw
	}
	return m, nil
}

func (m *Memory) Load(ctx context.Context, id string) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	raw, ok := m.docs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	return decode(raw)
}

func (m *Memory) Save(ctx context.Context, doc *model.Document) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := Prepare(doc, m.now())
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("store: encoding %s: %w", out.ID, err)
	}

	m.mu.Lock()
	m.docs[out.ID] = raw
	m.mu.Unlock()
	return decode(raw)
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	delete(m.docs, id)
	return nil
}

func (m *Memory) List(ctx context.Context, status model.Status) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, err := m.all()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		if status == "" || d.Status == status {
			out = append(out, Summarize(d))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Flush writes every document to the snapshot file. It is a no-op for
// stores created with NewMemory.
func (m *Memory) Flush() error {
	if m.path == "" {
		return nil
	}
	docs, err := m.all()
	if err != nil {
		return err
	}
	if err := writeSnapshot(m.path, docs); err != nil {
		return fmt.Errorf("store: writing snapshot %s: %w", m.path, err)
	}
	return nil
}

// all decodes every document, ordered by id
func (m *Memory) all() ([]*model.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]*model.Document, 0, len(ids))
	for _, id := range ids {
		d, err := decode(m.docs[id])
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func decode(raw []byte) (*model.Document, error) {
	var d model.Document
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("store: decoding document: %w", err)
	}
	return &d, nil
}

type snapshot struct {
	Documents []*model.Document `json:"documents"`
}

func readSnapshot(path string) ([]*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return snap.Documents, nil
}

// writeSnapshot replaces the file at path through a temporary file
func writeSnapshot(path string, docs []*model.Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snapshot{Documents: docs}, "", "  ")
	if err != nil {
		return err
	}
	temp := path + ".tmp"
	if err := os.WriteFile(temp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(temp, path)
}

var _ Store = (*Memory)(nil)
