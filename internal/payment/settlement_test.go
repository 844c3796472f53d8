package payment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studentportal/internal/models"
)

// fakeFeeStore keeps fees in a map and mimics the transactional settle of
// the real repository.
type fakeFeeStore struct {
	mu          sync.Mutex
	fees        map[uint]*models.TuitionFee
	settleErrs  []error // consumed one per Settle call before touching fees
	settleCalls int
}

func newFakeFeeStore(fees ...*models.TuitionFee) *fakeFeeStore {
	s := &fakeFeeStore{fees: make(map[uint]*models.TuitionFee)}
	for _, f := range fees {
		s.fees[f.ID] = f
	}
	return s
}

func (s *fakeFeeStore) FindByID(_ context.Context, id uint) (*models.TuitionFee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fee, ok := s.fees[id]
	if !ok {
		return nil, ErrFeeNotFound
	}
	copied := *fee
	return &copied, nil
}

func (s *fakeFeeStore) Settle(_ context.Context, feeID uint) (SettleState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settleCalls++
	if len(s.settleErrs) > 0 {
		err := s.settleErrs[0]
		s.settleErrs = s.settleErrs[1:]
		if err != nil {
			return 0, err
		}
	}
	fee, ok := s.fees[feeID]
	if !ok {
		return SettleNotFound, nil
	}
	if fee.AmountPaid >= fee.TotalDue {
		return SettleAlreadyPaid, nil
	}
	fee.AmountPaid = fee.TotalDue
	fee.Status = models.TuitionPaid
	return SettleApplied, nil
}

func unpaidFee(id uint, total int64) *models.TuitionFee {
	return &models.TuitionFee{ID: id, TotalDue: total, Status: models.TuitionUnpaid}
}

func TestApplySettlesUnpaidFee(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	settler := NewSettler(store, zap.NewNop())

	result, err := settler.Apply(context.Background(), 7, 5000000, StatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, ResultApplied, result)

	fee := store.fees[7]
	assert.Equal(t, int64(5000000), fee.AmountPaid)
	assert.Equal(t, models.TuitionPaid, fee.Status)
}

func TestApplyIsIdempotent(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	settler := NewSettler(store, zap.NewNop())
	ctx := context.Background()

	first, err := settler.Apply(ctx, 7, 5000000, StatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, ResultApplied, first)

	// The gateway redelivers; only the first delivery mutates.
	for i := 0; i < 3; i++ {
		result, err := settler.Apply(ctx, 7, 5000000, StatusSuccess)
		require.NoError(t, err)
		assert.Equal(t, ResultAlreadySettled, result)
	}
	assert.Equal(t, int64(5000000), store.fees[7].AmountPaid)
}

func TestApplyFeeNotFound(t *testing.T) {
	settler := NewSettler(newFakeFeeStore(), zap.NewNop())
	result, err := settler.Apply(context.Background(), 99, 100, StatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, ResultFeeNotFound, result)
}

func TestApplyStatusMismatchSkipsStore(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	settler := NewSettler(store, zap.NewNop())

	result, err := settler.Apply(context.Background(), 7, 5000000, "24")
	require.NoError(t, err)
	assert.Equal(t, ResultStatusMismatch, result)
	assert.Zero(t, store.settleCalls, "failed transactions must not touch storage")
	assert.Zero(t, store.fees[7].AmountPaid)
}

func TestApplyRetriesTransientFailures(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	store.settleErrs = []error{errors.New("deadlock"), errors.New("deadlock")}
	settler := NewSettler(store, zap.NewNop())

	result, err := settler.Apply(context.Background(), 7, 5000000, StatusSuccess)
	require.NoError(t, err)
	assert.Equal(t, ResultApplied, result)
	assert.Equal(t, 3, store.settleCalls)
}

func TestApplyExhaustedRetriesIsStorageFailure(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	store.settleErrs = []error{
		errors.New("deadlock"), errors.New("deadlock"), errors.New("deadlock"),
	}
	settler := NewSettler(store, zap.NewNop())

	_, err := settler.Apply(context.Background(), 7, 5000000, StatusSuccess)
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.Zero(t, store.fees[7].AmountPaid)
}

func TestApplyConcurrentDeliveries(t *testing.T) {
	store := newFakeFeeStore(unpaidFee(7, 5000000))
	settler := NewSettler(store, zap.NewNop())

	const workers = 8
	results := make(chan ApplyResult, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := settler.Apply(context.Background(), 7, 5000000, StatusSuccess)
			assert.NoError(t, err)
			results <- result
		}()
	}
	wg.Wait()
	close(results)

	applied := 0
	for r := range results {
		if r == ResultApplied {
			applied++
		} else {
			assert.Equal(t, ResultAlreadySettled, r)
		}
	}
	assert.Equal(t, 1, applied, "exactly one delivery applies")
	assert.Equal(t, int64(5000000), store.fees[7].AmountPaid)
}
