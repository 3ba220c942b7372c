package ledgerstore

import (
	"context"
	"fmt"
	"math/big"
	"strconv"

	ledgerv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/ledger/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	"github.com/muhammadchandra19/ring-settlement/pkg/redis"
)

// Key layout, all under one prefix per settlement stream:
//
//	<prefix>:balance:<token>                hash, field owner -> decimal amount
//	<prefix>:allowance:<token>:<spender>    hash, field owner -> decimal amount
//	<prefix>:burnrate:<token>               hash, fields matched / p2p
//	<prefix>:orders:registered              hash, field order hash -> "1"
//	<prefix>:orders:cancelled               hash, field order hash -> "1"
//
// Missing fields read as zero balances, zero rates and unregistered orders,
// so a sparsely populated ledger behaves sensibly.

// Store reads ledger state out of Redis. It implements both the ledger
// reader and the order registry.
type Store struct {
	prefix      string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewStore creates a ledger store reading under the given key prefix.
func NewStore(redisclient redis.Client, prefix string, log *logger.Logger) *Store {
	return &Store{
		prefix:      prefix,
		redisclient: redisclient,
		logger:      log,
	}
}

// BalanceOf returns the owner's balance of token.
func (s *Store) BalanceOf(ctx context.Context, token, owner orderv1.Address) (*big.Int, error) {
	key := fmt.Sprintf("%s:balance:%s", s.prefix, token.Hex())
	return s.readAmount(ctx, key, owner)
}

// Allowance returns the amount of token the owner has granted spender.
func (s *Store) Allowance(ctx context.Context, token, owner, spender orderv1.Address) (*big.Int, error) {
	key := fmt.Sprintf("%s:allowance:%s:%s", s.prefix, token.Hex(), spender.Hex())
	return s.readAmount(ctx, key, owner)
}

// BurnRate returns the fee burn rates for token. Tokens with no configured
// entry burn nothing.
func (s *Store) BurnRate(ctx context.Context, token orderv1.Address) (ledgerv1.BurnRates, error) {
	key := fmt.Sprintf("%s:burnrate:%s", s.prefix, token.Hex())
	fields, err := s.redisclient.HGetAll(ctx, key)
	if err != nil {
		s.logError(ctx, err, key, "BurnRate")
		return ledgerv1.BurnRates{}, errors.TracerFromError(err)
	}

	var rates ledgerv1.BurnRates
	if rates.Matched, err = parseRate(fields["matched"]); err != nil {
		return ledgerv1.BurnRates{}, s.corrupt(ctx, key, "matched", fields["matched"])
	}
	if rates.PeerToPeer, err = parseRate(fields["p2p"]); err != nil {
		return ledgerv1.BurnRates{}, s.corrupt(ctx, key, "p2p", fields["p2p"])
	}
	return rates, nil
}

// IsRegistered reports whether the order hash was pre-registered on the ledger.
func (s *Store) IsRegistered(ctx context.Context, hash orderv1.Hash) (bool, error) {
	return s.readFlag(ctx, s.prefix+":orders:registered", hash)
}

// IsCancelled reports whether the order hash has been cancelled.
func (s *Store) IsCancelled(ctx context.Context, hash orderv1.Hash) (bool, error) {
	return s.readFlag(ctx, s.prefix+":orders:cancelled", hash)
}

func (s *Store) readAmount(ctx context.Context, key string, owner orderv1.Address) (*big.Int, error) {
	raw, err := s.redisclient.HGet(ctx, key, owner.Hex())
	if err != nil {
		s.logError(ctx, err, key, "readAmount")
		return nil, errors.TracerFromError(err)
	}
	if raw == "" {
		return new(big.Int), nil
	}

	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, s.corrupt(ctx, key, owner.Hex(), raw)
	}
	return amount, nil
}

func (s *Store) readFlag(ctx context.Context, key string, hash orderv1.Hash) (bool, error) {
	raw, err := s.redisclient.HGet(ctx, key, hash.Hex())
	if err != nil {
		s.logError(ctx, err, key, "readFlag")
		return false, errors.TracerFromError(err)
	}
	return raw != "", nil
}

func (s *Store) corrupt(ctx context.Context, key, field, raw string) error {
	err := errors.NewErrorDetailsWithObject(
		"ledger entry is not a valid value",
		string(errors.LedgerStoreError),
		key,
		map[string]string{"field": field, "value": raw},
	)
	s.logError(ctx, err, key, "parse")
	return err
}

func (s *Store) logError(ctx context.Context, err error, key, operation string) {
	s.logger.ErrorContext(ctx, err, logger.Field{
		Key:   "key",
		Value: key,
	}, logger.Field{
		Key:   "operation",
		Value: operation,
	})
}

func parseRate(raw string) (uint16, error) {
	if raw == "" {
		return 0, nil
	}
	rate, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(rate), nil
}
