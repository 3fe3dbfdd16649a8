package ledger_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/ledger"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/mocks"
	"github.com/upravnik/assembly-engine/internal/store/schema"
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

type testLedgerMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	engine    *mocks.MockTallyEngine
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	service   ledger.Service
}

func setupTest(t *testing.T) *testLedgerMocks {
	ctrl := gomock.NewController(t)

	mockStore := mocks.NewMockStore(ctrl)
	mockEngine := mocks.NewMockTallyEngine(ctrl)
	mockPublisher := mocks.NewMockPublisher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	service := ledger.NewService(mockStore, mockEngine, mockPublisher, mockClock)

	return &testLedgerMocks{
		ctrl:      ctrl,
		store:     mockStore,
		engine:    mockEngine,
		publisher: mockPublisher,
		clock:     mockClock,
		service:   service,
	}
}

func TestService_Cast_BroadcastsSnapshot(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	storedVote := &schema.Vote{
		AttendeeID:   5,
		AgendaItemID: 10,
		Choice:       domain.ChoiceApprove,
		CastAt:       now,
	}
	snap := &domain.TallySnapshot{
		AgendaItemID: 10,
		AssemblyID:   1,
		ApproveMills: 400,
		Version:      4,
	}

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.store.EXPECT().
		CastVote(ctx, uint64(1), uint64(10), uint64(5), domain.ChoiceApprove, now).
		Return(storedVote, int64(4), nil)
	tm.engine.EXPECT().Snapshot(ctx, uint64(10)).Return(snap, nil)
	tm.publisher.EXPECT().PublishTally(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event *domain.TallyEvent) error {
			assert.Equal(t, uint64(1), event.AssemblyID)
			assert.Equal(t, int64(4), event.Snapshot.Version)
			assert.False(t, event.Final)
			assert.NotEmpty(t, event.EventID)
			return nil
		})

	vote, gotSnap, err := tm.service.Cast(ctx, 1, 10, 5, domain.ChoiceApprove)
	require.NoError(t, err)
	assert.Equal(t, storedVote, vote)
	assert.Equal(t, snap, gotSnap)
}

func TestService_Cast_InvalidChoiceRejectedBeforeWrite(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	_, _, err := tm.service.Cast(context.Background(), 1, 10, 5, domain.Choice("yes"))
	assert.ErrorIs(t, err, domain.ErrInvalidChoice)
}

func TestService_Cast_ClosedItem(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.store.EXPECT().
		CastVote(ctx, uint64(1), uint64(10), uint64(5), domain.ChoiceReject, now).
		Return(nil, int64(0), domain.ErrAgendaItemClosed)

	_, _, err := tm.service.Cast(ctx, 1, 10, 5, domain.ChoiceReject)
	assert.ErrorIs(t, err, domain.ErrAgendaItemClosed)
}

func TestService_Cast_SnapshotFailureStillReturnsVote(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

	storedVote := &schema.Vote{
		AttendeeID:   5,
		AgendaItemID: 10,
		Choice:       domain.ChoiceAbstain,
		CastAt:       now,
	}

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.store.EXPECT().
		CastVote(ctx, uint64(1), uint64(10), uint64(5), domain.ChoiceAbstain, now).
		Return(storedVote, int64(9), nil)
	tm.engine.EXPECT().Snapshot(ctx, uint64(10)).Return(nil, assert.AnError)

	vote, snap, err := tm.service.Cast(ctx, 1, 10, 5, domain.ChoiceAbstain)
	require.NoError(t, err)
	assert.Equal(t, storedVote, vote)
	assert.Nil(t, snap)
}
