package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	expireBookings "github.com/m04kA/SMC-ParkingService/internal/usecase/expire_bookings"
	"github.com/m04kA/SMC-ParkingService/pkg/logger"
)

type mockExpireUseCase struct{ mock.Mock }

func (m *mockExpireUseCase) Execute(ctx context.Context, req *expireBookings.Request) (*expireBookings.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*expireBookings.Response), args.Error(1)
}

type mockLocker struct{ mock.Mock }

func (m *mockLocker) TryAcquire(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockLocker) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

const testSweepTimeout = 4 * time.Minute

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestExpiryWorker(uc *mockExpireUseCase, lock Locker, now time.Time) *ExpiryWorker {
	w := NewExpiryWorker(uc, lock, time.Minute, testSweepTimeout, logger.NewNop())
	w.clock = fixedClock{now: now}
	return w
}

func TestExpiryWorker_RunOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := new(mockExpireUseCase)
	lock := new(mockLocker)

	lock.On("TryAcquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)
	uc.On("Execute", mock.Anything, &expireBookings.Request{Now: now}).
		Return(&expireBookings.Response{Scanned: 2, Expired: 2}, nil)

	newTestExpiryWorker(uc, lock, now).RunOnce(context.Background())

	uc.AssertExpectations(t)
	lock.AssertExpectations(t)
}

func TestExpiryWorker_LockNotAcquired(t *testing.T) {
	uc := new(mockExpireUseCase)
	lock := new(mockLocker)
	lock.On("TryAcquire", mock.Anything).Return(false, nil)

	newTestExpiryWorker(uc, lock, time.Now()).RunOnce(context.Background())

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	lock.AssertNotCalled(t, "Release", mock.Anything)
}

func TestExpiryWorker_LockError(t *testing.T) {
	uc := new(mockExpireUseCase)
	lock := new(mockLocker)
	lock.On("TryAcquire", mock.Anything).Return(false, errors.New("redis down"))

	newTestExpiryWorker(uc, lock, time.Now()).RunOnce(context.Background())

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestExpiryWorker_ReleasesOnUseCaseError(t *testing.T) {
	uc := new(mockExpireUseCase)
	lock := new(mockLocker)
	lock.On("TryAcquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	newTestExpiryWorker(uc, lock, time.Now()).RunOnce(context.Background())

	lock.AssertCalled(t, "Release", mock.Anything)
}

func TestExpiryWorker_SweepBoundedBySweepTimeout(t *testing.T) {
	uc := new(mockExpireUseCase)
	lock := new(mockLocker)
	lock.On("TryAcquire", mock.Anything).Return(true, nil)
	lock.On("Release", mock.Anything).Return(nil)

	start := time.Now()
	withDeadline := mock.MatchedBy(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		return ok && !deadline.After(start.Add(testSweepTimeout+time.Second))
	})
	uc.On("Execute", withDeadline, mock.Anything).Return(&expireBookings.Response{}, nil)

	newTestExpiryWorker(uc, lock, start).RunOnce(context.Background())

	uc.AssertExpectations(t)
}

func TestExpiryWorker_RunStopsOnCancel(t *testing.T) {
	uc := new(mockExpireUseCase)
	w := NewExpiryWorker(uc, NoopLock{}, time.Hour, testSweepTimeout, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}
