// MIT License
//
// Copyright (c) 2025-2026 icx-labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package persistence

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/icx-labs/localic/ledger"
)

// MemoryStore keeps canister state in process memory. It backs tests and
// ephemeral local runs.
type MemoryStore struct {
	counters  *sync.Map
	ledgers   *sync.Map
	connected *atomic.Bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		counters:  &sync.Map{},
		ledgers:   &sync.Map{},
		connected: atomic.NewBool(false),
	}
}

func (s *MemoryStore) ID() string {
	return StateStoreID
}

func (s *MemoryStore) Start(context.Context) error {
	s.connected.Store(true)
	return nil
}

func (s *MemoryStore) Stop(context.Context) error {
	if !s.connected.Load() {
		return nil
	}
	s.counters.Range(func(key, _ any) bool {
		s.counters.Delete(key)
		return true
	})
	s.ledgers.Range(func(key, _ any) bool {
		s.ledgers.Delete(key)
		return true
	})
	s.connected.Store(false)
	return nil
}

func (s *MemoryStore) WriteCounter(_ context.Context, name string, value uint64) error {
	if !s.connected.Load() {
		return errors.New("store is not connected")
	}
	s.counters.Store(name, value)
	return nil
}

func (s *MemoryStore) GetCounter(_ context.Context, name string) (uint64, bool, error) {
	if !s.connected.Load() {
		return 0, false, errors.New("store is not connected")
	}
	value, ok := s.counters.Load(name)
	if !ok {
		return 0, false, nil
	}
	return value.(uint64), true, nil
}

func (s *MemoryStore) WriteLedger(_ context.Context, name string, snapshot *ledger.Snapshot) error {
	if !s.connected.Load() {
		return errors.New("store is not connected")
	}
	s.ledgers.Store(name, snapshot)
	return nil
}

func (s *MemoryStore) GetLedger(_ context.Context, name string) (*ledger.Snapshot, error) {
	if !s.connected.Load() {
		return nil, errors.New("store is not connected")
	}
	value, ok := s.ledgers.Load(name)
	if !ok {
		return nil, nil
	}
	return value.(*ledger.Snapshot), nil
}
