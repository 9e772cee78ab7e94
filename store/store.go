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

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/milhaspix/milhas/config"
	redis_db "github.com/milhaspix/milhas/internal/redis-db"
	"github.com/milhaspix/milhas/model"
)

// snapshotTTL bounds how long an abandoned half-filled form survives.
const snapshotTTL = 24 * time.Hour

// SnapshotStore persists one serialized form snapshot per session. Get
// reports presence explicitly so a missing snapshot is not an error: it just
// means a fresh form.
type SnapshotStore interface {
	Get(ctx context.Context, sessionID string) (model.FormSnapshot, bool, error)
	Set(ctx context.Context, sessionID string, snap model.FormSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStore keeps snapshots in Redis as JSON blobs under one key per
// session.
type RedisStore struct {
	client redis.UniversalClient
}

var _ SnapshotStore = (*RedisStore)(nil)

// NewStore connects to the configured Redis and returns a snapshot store.
func NewStore() (*RedisStore, error) {
	cfg, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	client, err := redis_db.NewRedisClient([]string{cfg.Redis.Dns})
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: client.Client()}, nil
}

// NewStoreWithClient wires an existing client, used by tests running against
// miniredis.
func NewStoreWithClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (model.FormSnapshot, bool, error) {
	v, err := s.client.Get(ctx, snapshotKey(sessionID)).Result()
	if err == redis.Nil {
		return model.FormSnapshot{}, false, nil
	}
	if err != nil {
		return model.FormSnapshot{}, false, errors.Wrap(err, "reading form snapshot")
	}

	var snap model.FormSnapshot
	if err := json.Unmarshal([]byte(v), &snap); err != nil {
		return model.FormSnapshot{}, false, errors.Wrap(err, "decoding form snapshot")
	}
	return snap, true, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, snap model.FormSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encoding form snapshot")
	}
	return errors.Wrap(s.client.Set(ctx, snapshotKey(sessionID), b, snapshotTTL).Err(), "writing form snapshot")
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return errors.Wrap(s.client.Del(ctx, snapshotKey(sessionID)).Err(), "deleting form snapshot")
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("announcement:form:%s", sessionID)
}
