package sweeper_test

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/mocks"
	"github.com/upravnik/assembly-engine/internal/store/schema"
	"github.com/upravnik/assembly-engine/internal/sweeper"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

type testSweeperMocks struct {
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	resolver *mocks.MockResolver
	clock    *mocks.MockClock
	sweeper  sweeper.Sweeper
}

func setupTest(t *testing.T) *testSweeperMocks {
	ctrl := gomock.NewController(t)

	mockStore := mocks.NewMockStore(ctrl)
	mockResolver := mocks.NewMockResolver(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	cfg := &sweeper.DeadlineSweeperConfig{
		BatchSize:      10,
		WorkerPoolSize: 2,
	}
	s := sweeper.NewDeadlineSweeper(cfg, mockStore, mockResolver, mockClock)

	return &testSweeperMocks{
		ctrl:     ctrl,
		store:    mockStore,
		resolver: mockResolver,
		clock:    mockClock,
		sweeper:  s,
	}
}

func TestDeadlineSweeper_ClosesExpiredItems(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	expired := []schema.AgendaItem{
		{ID: 10, AssemblyID: 1, Status: schema.AgendaItemStatusOpen},
		{ID: 11, AssemblyID: 2, Status: schema.AgendaItemStatusOpen},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var closed atomic.Int32

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	// First cycle finds the two expired items, later cycles find none
	first := tm.store.EXPECT().ListExpiredOpenItems(gomock.Any(), now, 10).Return(expired, nil)
	tm.store.EXPECT().ListExpiredOpenItems(gomock.Any(), now, 10).Return(nil, nil).AnyTimes().After(first)
	tm.resolver.EXPECT().Close(gomock.Any(), uint64(1), uint64(10)).DoAndReturn(
		func(context.Context, uint64, uint64) (*schema.FinalResult, error) {
			closed.Add(1)
			return &schema.FinalResult{AgendaItemID: 10}, nil
		})
	tm.resolver.EXPECT().Close(gomock.Any(), uint64(2), uint64(11)).DoAndReturn(
		func(context.Context, uint64, uint64) (*schema.FinalResult, error) {
			closed.Add(1)
			return &schema.FinalResult{AgendaItemID: 11}, nil
		})

	// The idle sleep parks the loop until the context is canceled
	tm.clock.EXPECT().After(gomock.Any()).Return(make(chan time.Time)).AnyTimes()

	done := make(chan error, 1)
	go func() {
		done <- tm.sweeper.Start(ctx)
	}()

	assert.Eventually(t, func() bool {
		return closed.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestDeadlineSweeper_LostRaceIsNotAnError(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)
	expired := []schema.AgendaItem{
		{ID: 10, AssemblyID: 1, Status: schema.AgendaItemStatusOpen},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var attempts atomic.Int32

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	first := tm.store.EXPECT().ListExpiredOpenItems(gomock.Any(), now, 10).Return(expired, nil)
	tm.store.EXPECT().ListExpiredOpenItems(gomock.Any(), now, 10).Return(nil, nil).AnyTimes().After(first)
	// A manual close won the race; the sweeper must not retry
	tm.resolver.EXPECT().Close(gomock.Any(), uint64(1), uint64(10)).DoAndReturn(
		func(context.Context, uint64, uint64) (*schema.FinalResult, error) {
			attempts.Add(1)
			return nil, domain.ErrAgendaItemAlreadyClosed
		})
	tm.clock.EXPECT().After(gomock.Any()).Return(make(chan time.Time)).AnyTimes()

	done := make(chan error, 1)
	go func() {
		done <- tm.sweeper.Start(ctx)
	}()

	assert.Eventually(t, func() bool {
		return attempts.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestDeadlineSweeper_StopIsGraceful(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	now := time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.store.EXPECT().ListExpiredOpenItems(gomock.Any(), now, 10).Return(nil, nil).AnyTimes()

	// Completed idle sleeps keep the loop spinning until stop is requested
	tm.clock.EXPECT().After(gomock.Any()).DoAndReturn(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- now
		return ch
	}).AnyTimes()

	ctx := context.Background()
	done := make(chan error, 1)
	go func() {
		done <- tm.sweeper.Start(ctx)
	}()

	// Give the loop a moment to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(ctx, time.Second)
	defer stopCancel()
	assert.NoError(t, tm.sweeper.Stop(stopCtx))
	assert.NoError(t, <-done)
}
