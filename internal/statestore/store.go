package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"TankSentinel/internal/coordinator"
	"TankSentinel/internal/model"
	"TankSentinel/internal/sensor"
)

const (
	keyPrefix = "tanksentinel"
	// StatusKey holds the JSON-encoded coordinator status.
	StatusKey = keyPrefix + ":status"

	publishTimeout = 5 * time.Second
)

// ErrNotFound is returned when a key is absent or has expired.
var ErrNotFound = errors.New("statestore: not found")

// SensorKey returns the key a sensor state is stored under.
func SensorKey(uniqueID string) string {
	return fmt.Sprintf("%s:sensor:%s", keyPrefix, uniqueID)
}

// Store mirrors current sensor states into redis for external consumers.
type Store struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *zap.Logger
}

// NewStore returns a redis-backed store. Keys expire after ttl so consumers
// can tell a dead poller from a quiet one.
func NewStore(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, ttl: ttl, logger: logger.Named("statestore")}
}

// Publish writes every sensor state and the status in one transaction.
func (s *Store) Publish(ctx context.Context, states []sensor.State, status coordinator.Status) error {
	statusData, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, st := range states {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("marshal sensor %s: %w", st.UniqueID, err)
		}
		pipe.Set(ctx, SensorKey(st.UniqueID), data, s.ttl)
	}
	pipe.Set(ctx, StatusKey, statusData, s.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish states: %w", err)
	}
	return nil
}

// GetSensor returns the stored state of one sensor.
func (s *Store) GetSensor(ctx context.Context, uniqueID string) (*sensor.State, error) {
	var st sensor.State
	if err := s.get(ctx, SensorKey(uniqueID), &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetStatus returns the stored coordinator status.
func (s *Store) GetStatus(ctx context.Context) (*coordinator.Status, error) {
	var st coordinator.Status
	if err := s.get(ctx, StatusKey, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) get(ctx context.Context, key string, dst any) error {
	result, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(result), dst)
}

// StatusSource provides the coordinator status.
type StatusSource interface {
	Status() coordinator.Status
}

// Listener returns a coordinator listener that republishes all states after
// every cycle. Failed cycles are published too, since availability changes.
func (s *Store) Listener(reg *sensor.Registry, src StatusSource) func(model.RefreshResult) {
	return func(res model.RefreshResult) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := s.Publish(ctx, reg.States(), src.Status()); err != nil {
			s.logger.Warn("publish to redis failed", zap.String("cycle_id", res.CycleID), zap.Error(err))
		}
	}
}
