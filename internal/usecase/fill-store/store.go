package fillstore

import (
	"context"
	"math/big"

	fillv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/fill/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	"github.com/muhammadchandra19/ring-settlement/pkg/redis"
)

// Store persists cumulative filled amounts in a single Redis hash, field
// order hash -> decimal amount. Orders that have never traded have no field.
type Store struct {
	key         string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewStore creates a fill store persisting under "<prefix>:fills".
func NewStore(redisclient redis.Client, prefix string, log *logger.Logger) *Store {
	return &Store{
		key:         prefix + ":fills",
		redisclient: redisclient,
		logger:      log,
	}
}

// Load returns the filled amounts for the given order hashes. Hashes with no
// stored fill load as zero so fresh orders need no initialization.
func (s *Store) Load(ctx context.Context, hashes []orderv1.Hash) (fillv1.State, error) {
	state := make(fillv1.State, len(hashes))
	for _, hash := range hashes {
		if _, ok := state[hash]; ok {
			continue
		}

		raw, err := s.redisclient.HGet(ctx, s.key, hash.Hex())
		if err != nil {
			s.logError(ctx, err, "Load")
			return nil, errors.TracerFromError(err)
		}
		if raw == "" {
			state[hash] = new(big.Int)
			continue
		}

		amount, ok := new(big.Int).SetString(raw, 10)
		if !ok || amount.Sign() < 0 {
			err := errors.NewErrorDetailsWithObject(
				"stored fill is not a valid amount",
				string(errors.FillStoreError),
				hash.Hex(),
				raw,
			)
			s.logError(ctx, err, "Load")
			return nil, err
		}
		state[hash] = amount
	}
	return state, nil
}

// Save writes the filled amounts back. Zero amounts are written too: a
// re-simulated batch must observe the same state it produced.
func (s *Store) Save(ctx context.Context, state fillv1.State) error {
	if len(state) == 0 {
		return nil
	}

	values := make(map[string]any, len(state))
	for hash, amount := range state {
		if amount == nil || amount.Sign() < 0 {
			return errors.NewErrorDetailsWithObject(
				"refusing to store a negative or nil fill",
				string(errors.FillStoreError),
				hash.Hex(),
				amount,
			)
		}
		values[hash.Hex()] = amount.String()
	}

	if _, err := s.redisclient.HSet(ctx, s.key, values); err != nil {
		s.logError(ctx, err, "Save")
		return errors.TracerFromError(err)
	}
	return nil
}

func (s *Store) logError(ctx context.Context, err error, operation string) {
	s.logger.ErrorContext(ctx, err, logger.Field{
		Key:   "key",
		Value: s.key,
	}, logger.Field{
		Key:   "operation",
		Value: operation,
	})
}
