package decision_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/decision"
	"github.com/upravnik/assembly-engine/internal/domain"
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

func TestOutcome(t *testing.T) {
	tests := []struct {
		name     string
		snapshot domain.TallySnapshot
		expected domain.Outcome
	}{
		{
			name:     "quorum failure is invalid even when reject leads",
			snapshot: domain.TallySnapshot{IsValid: false, RejectMills: 250},
			expected: domain.OutcomeInvalid,
		},
		{
			name:     "approve majority",
			snapshot: domain.TallySnapshot{IsValid: true, ApproveMills: 750, RejectMills: 250},
			expected: domain.OutcomeApproved,
		},
		{
			name:     "reject majority",
			snapshot: domain.TallySnapshot{IsValid: true, ApproveMills: 100, RejectMills: 400},
			expected: domain.OutcomeRejected,
		},
		{
			name:     "draw resolves to rejected",
			snapshot: domain.TallySnapshot{IsValid: true, ApproveMills: 200, RejectMills: 200},
			expected: domain.OutcomeRejected,
		},
		{
			name:     "all abstain with quorum resolves to rejected",
			snapshot: domain.TallySnapshot{IsValid: true, AbstainMills: 600},
			expected: domain.OutcomeRejected,
		},
		{
			name:     "nobody voted with zero threshold resolves to rejected",
			snapshot: domain.TallySnapshot{IsValid: true},
			expected: domain.OutcomeRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decision.Outcome(&tt.snapshot))
		})
	}
}

type testResolverMocks struct {
	ctrl      *gomock.Controller
	store     *mocks.MockStore
	engine    *mocks.MockTallyEngine
	publisher *mocks.MockPublisher
	clock     *mocks.MockClock
	resolver  decision.Resolver
}

func setupTest(t *testing.T) *testResolverMocks {
	ctrl := gomock.NewController(t)

	mockStore := mocks.NewMockStore(ctrl)
	mockEngine := mocks.NewMockTallyEngine(ctrl)
	mockPublisher := mocks.NewMockPublisher(ctrl)
	mockClock := mocks.NewMockClock(ctrl)

	resolver := decision.NewResolver(mockStore, mockEngine, mockPublisher, mockClock, adapter.NewJSON())

	return &testResolverMocks{
		ctrl:      ctrl,
		store:     mockStore,
		engine:    mockEngine,
		publisher: mockPublisher,
		clock:     mockClock,
		resolver:  resolver,
	}
}

func TestResolver_Close_FreezesOutcomeAndBroadcastsFinal(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	closedItem := &schema.AgendaItem{
		ID:         10,
		AssemblyID: 1,
		Status:     schema.AgendaItemStatusClosed,
		ClosedAt:   &now,
	}
	snap := &domain.TallySnapshot{
		AgendaItemID:         10,
		AssemblyID:           1,
		ApproveMills:         750,
		RejectMills:          250,
		TotalVotedMills:      1000,
		ParticipationPercent: 100,
		IsValid:              true,
		LeadingChoice:        domain.LeadingApprove,
		Version:              7,
	}

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.store.EXPECT().CloseAgendaItem(ctx, uint64(1), uint64(10), now).Return(closedItem, nil)
	tm.engine.EXPECT().Snapshot(ctx, uint64(10)).Return(snap, nil)
	tm.store.EXPECT().CreateFinalResult(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, result *schema.FinalResult) error {
			assert.Equal(t, uint64(10), result.AgendaItemID)
			assert.Equal(t, domain.OutcomeApproved, result.Outcome)
			assert.Equal(t, now, result.ClosedAt)
			assert.NotEmpty(t, result.Snapshot)
			return nil
		})
	tm.publisher.EXPECT().PublishTally(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event *domain.TallyEvent) error {
			assert.True(t, event.Final)
			assert.Equal(t, domain.OutcomeApproved, event.Outcome)
			assert.Equal(t, uint64(1), event.AssemblyID)
			assert.NotEmpty(t, event.EventID)
			return nil
		})

	result, err := tm.resolver.Close(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApproved, result.Outcome)
}

func TestResolver_Close_AlreadyClosedAndFrozen(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	tm.clock.EXPECT().Now().Return(now)
	tm.store.EXPECT().CloseAgendaItem(ctx, uint64(1), uint64(10), now).
		Return(nil, domain.ErrAgendaItemAlreadyClosed)
	tm.store.EXPECT().GetFinalResult(ctx, uint64(10)).
		Return(&schema.FinalResult{AgendaItemID: 10, Outcome: domain.OutcomeApproved}, nil)

	_, err := tm.resolver.Close(ctx, 1, 10)
	assert.ErrorIs(t, err, domain.ErrAgendaItemAlreadyClosed)
}

func TestResolver_Close_RetryRepairsMissingFreeze(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	closedItem := &schema.AgendaItem{
		ID:         10,
		AssemblyID: 1,
		Status:     schema.AgendaItemStatusClosed,
		ClosedAt:   &now,
	}
	snap := &domain.TallySnapshot{
		AgendaItemID: 10,
		AssemblyID:   1,
		ApproveMills: 600,
		RejectMills:  400,
		IsValid:      true,
	}

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.engine.EXPECT().Snapshot(ctx, uint64(10)).Return(snap, nil).Times(2)

	// First close flips the item but the freeze write fails
	tm.store.EXPECT().CloseAgendaItem(ctx, uint64(1), uint64(10), now).Return(closedItem, nil)
	tm.store.EXPECT().CreateFinalResult(ctx, gomock.Any()).Return(assert.AnError)

	_, err := tm.resolver.Close(ctx, 1, 10)
	require.Error(t, err)

	// The retry finds the item closed without a result and completes the freeze
	tm.store.EXPECT().CloseAgendaItem(ctx, uint64(1), uint64(10), now).
		Return(nil, domain.ErrAgendaItemAlreadyClosed)
	tm.store.EXPECT().GetFinalResult(ctx, uint64(10)).
		Return(nil, domain.ErrFinalResultNotFound)
	tm.store.EXPECT().GetAgendaItem(ctx, uint64(1), uint64(10)).Return(closedItem, nil)
	tm.store.EXPECT().CreateFinalResult(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, result *schema.FinalResult) error {
			assert.Equal(t, uint64(10), result.AgendaItemID)
			assert.Equal(t, domain.OutcomeApproved, result.Outcome)
			assert.Equal(t, now, result.ClosedAt)
			return nil
		})
	tm.publisher.EXPECT().PublishTally(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event *domain.TallyEvent) error {
			assert.True(t, event.Final)
			assert.Equal(t, domain.OutcomeApproved, event.Outcome)
			return nil
		})

	result, err := tm.resolver.Close(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApproved, result.Outcome)
}

func TestResolver_Close_PublishFailureDoesNotFailClose(t *testing.T) {
	tm := setupTest(t)
	defer tm.ctrl.Finish()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	closedItem := &schema.AgendaItem{
		ID:         10,
		AssemblyID: 1,
		Status:     schema.AgendaItemStatusClosed,
		ClosedAt:   &now,
	}
	snap := &domain.TallySnapshot{
		AgendaItemID: 10,
		AssemblyID:   1,
		IsValid:      false,
		RejectMills:  250,
	}

	tm.clock.EXPECT().Now().Return(now).AnyTimes()
	tm.store.EXPECT().CloseAgendaItem(ctx, uint64(1), uint64(10), now).Return(closedItem, nil)
	tm.engine.EXPECT().Snapshot(ctx, uint64(10)).Return(snap, nil)
	tm.store.EXPECT().CreateFinalResult(ctx, gomock.Any()).Return(nil)
	tm.publisher.EXPECT().PublishTally(ctx, gomock.Any()).Return(assert.AnError)

	result, err := tm.resolver.Close(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInvalid, result.Outcome)
}
