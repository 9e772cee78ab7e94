/*
Copyright 2025 MilhasPix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package milhas

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/milhaspix/milhas/config"
	"github.com/milhaspix/milhas/internal/apierror"
	"github.com/milhaspix/milhas/internal/cache"
	redis_db "github.com/milhaspix/milhas/internal/redis-db"
	"github.com/milhaspix/milhas/store"
)

// Milhas is the application service: it owns the live form sessions, the
// snapshot store behind them and the upstream client for ranking and offers
// data.
type Milhas struct {
	store    store.SnapshotStore
	upstream *UpstreamClient
	lock     redis.UniversalClient

	mu       sync.Mutex
	sessions map[string]*FormSession
}

// NewMilhas assembles the service from the loaded configuration.
func NewMilhas() (*Milhas, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	client, err := redis_db.NewRedisClient([]string{cfg.Redis.Dns})
	if err != nil {
		return nil, err
	}
	ca, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	upstream, err := NewUpstreamClient(ca)
	if err != nil {
		return nil, err
	}
	m := NewMilhasWithDeps(store.NewStoreWithClient(client.Client()), upstream)
	m.lock = client.Client()
	return m, nil
}

// NewMilhasWithDeps wires explicit dependencies, used by tests.
func NewMilhasWithDeps(st store.SnapshotStore, upstream *UpstreamClient) *Milhas {
	return &Milhas{
		store:    st,
		upstream: upstream,
		sessions: make(map[string]*FormSession),
	}
}

// SetLockClient attaches the Redis client backing the distributed submit
// lock. Without one the in-process guard still applies.
func (m *Milhas) SetLockClient(client redis.UniversalClient) {
	m.lock = client
}

// Upstream exposes the ranking/offers client to the API layer.
func (m *Milhas) Upstream() *UpstreamClient {
	return m.upstream
}

// CreateForm starts a new wizard session and persists its initial snapshot.
func (m *Milhas) CreateForm(ctx context.Context) (*FormSession, error) {
	session := NewFormSession(uuid.New().String(), m.store)
	m.attachWatcher(session)
	session.persist(ctx)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()
	return session, nil
}

// GetForm returns a live session, restoring it from the snapshot store when
// the process no longer holds it in memory (the reload path).
func (m *Milhas) GetForm(ctx context.Context, sessionID string) (*FormSession, error) {
	m.mu.Lock()
	session, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if ok {
		return session, nil
	}

	snap, found, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Erro interno do servidor", err)
	}
	if !found {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "Form session not found", nil)
	}

	session = RestoreFormSession(sessionID, m.store, snap)
	m.attachWatcher(session)

	m.mu.Lock()
	if existing, ok := m.sessions[sessionID]; ok {
		session = existing // lost the race, keep the first restore
	} else {
		m.sessions[sessionID] = session
	}
	m.mu.Unlock()
	return session, nil
}

// DropForm clears a session and forgets it.
func (m *Milhas) DropForm(ctx context.Context, sessionID string) error {
	session, err := m.GetForm(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := session.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *Milhas) attachWatcher(session *FormSession) {
	if m.upstream == nil {
		return
	}
	debounce := 300 * time.Millisecond
	if cfg, err := config.Fetch(); err == nil && cfg.Ranking.DebounceMs > 0 {
		debounce = time.Duration(cfg.Ranking.DebounceMs) * time.Millisecond
	}
	session.SetRankingWatcher(NewRankingWatcher(m.upstream.FetchRanking, debounce))
}
