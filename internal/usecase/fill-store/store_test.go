package fillstore

import (
	"context"
	"math/big"
	"testing"

	fillv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/fill/v1"
	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
	"github.com/muhammadchandra19/ring-settlement/pkg/logger"
	redis_mock "github.com/muhammadchandra19/ring-settlement/pkg/redis/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testFixture struct {
	ctrl        *gomock.Controller
	redisclient *redis_mock.MockClient
	store       *Store
}

func setupTestFixture(t *testing.T) (*testFixture, func()) {
	ctrl := gomock.NewController(t)
	redisclient := redis_mock.NewMockClient(ctrl)

	log, err := logger.NewLogger()
	require.NoError(t, err)

	return &testFixture{
		ctrl:        ctrl,
		redisclient: redisclient,
		store:       NewStore(redisclient, "rings", log),
	}, ctrl.Finish
}

func hash(last byte) orderv1.Hash {
	var h orderv1.Hash
	h[31] = last
	return h
}

func TestStore_Load(t *testing.T) {
	t.Run("mixes stored and fresh hashes", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		fixture.redisclient.EXPECT().
			HGet(gomock.Any(), "rings:fills", hash(0x01).Hex()).
			Return("600", nil)
		fixture.redisclient.EXPECT().
			HGet(gomock.Any(), "rings:fills", hash(0x02).Hex()).
			Return("", nil)

		state, err := fixture.store.Load(context.Background(), []orderv1.Hash{hash(0x01), hash(0x02)})
		require.NoError(t, err)

		assert.Equal(t, big.NewInt(600), state[hash(0x01)])
		assert.Equal(t, 0, state[hash(0x02)].Sign())
	})

	t.Run("duplicate hashes are read once", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		fixture.redisclient.EXPECT().
			HGet(gomock.Any(), "rings:fills", hash(0x01).Hex()).
			Return("5", nil).
			Times(1)

		state, err := fixture.store.Load(context.Background(), []orderv1.Hash{hash(0x01), hash(0x01)})
		require.NoError(t, err)
		assert.Len(t, state, 1)
	})

	t.Run("corrupt entry fails", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		fixture.redisclient.EXPECT().
			HGet(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("garbage", nil)

		state, err := fixture.store.Load(context.Background(), []orderv1.Hash{hash(0x01)})
		require.Error(t, err)
		assert.Nil(t, state)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.FillStoreError)))
	})

	t.Run("redis error propagates", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		fixture.redisclient.EXPECT().
			HGet(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", errors.NewErrorDetails("boom", string(errors.RedisHGetError), "hget"))

		_, err := fixture.store.Load(context.Background(), []orderv1.Hash{hash(0x01)})
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.RedisHGetError)))
	})
}

func TestStore_Save(t *testing.T) {
	t.Run("writes decimal fields", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		fixture.redisclient.EXPECT().
			HSet(gomock.Any(), "rings:fills", map[string]any{
				hash(0x01).Hex(): "600",
				hash(0x02).Hex(): "0",
			}).
			Return(int64(2), nil)

		err := fixture.store.Save(context.Background(), fillv1.State{
			hash(0x01): big.NewInt(600),
			hash(0x02): new(big.Int),
		})
		assert.NoError(t, err)
	})

	t.Run("empty state is a no-op", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		err := fixture.store.Save(context.Background(), fillv1.State{})
		assert.NoError(t, err)
	})

	t.Run("negative fill is rejected before writing", func(t *testing.T) {
		fixture, teardown := setupTestFixture(t)
		defer teardown()

		err := fixture.store.Save(context.Background(), fillv1.State{
			hash(0x01): big.NewInt(-1),
		})
		require.Error(t, err)
		assert.True(t, errors.ErrorCodeEquals(err, string(errors.FillStoreError)))
	})
}
