package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/store/schema"
)

var (
	testDB      *gorm.DB
	pgContainer *postgres.PostgresContainer
)

// TestMain sets up the test database before running tests
func TestMain(m *testing.M) {
	ctx := context.Background()

	// Check if we should use an external database (for CI or local development)
	dbHost := os.Getenv("TEST_DB_HOST")
	dbPort := os.Getenv("TEST_DB_PORT")
	dbUser := os.Getenv("TEST_DB_USER")
	dbPassword := os.Getenv("TEST_DB_PASSWORD")
	dbName := os.Getenv("TEST_DB_NAME")

	var dsn string
	var err error

	if dbHost != "" {
		// Use external database
		if dbPort == "" {
			dbPort = "5432"
		}
		if dbUser == "" {
			dbUser = "postgres"
		}
		if dbPassword == "" {
			dbPassword = "postgres"
		}
		if dbName == "" {
			dbName = "test_db"
		}

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPassword, dbName)

		fmt.Printf("Using external database: %s:%s/%s\n", dbHost, dbPort, dbName)
	} else {
		// Start a PostgreSQL container for testing
		pgContainer, err = postgres.Run(ctx,
			"postgres:18-alpine",
			postgres.WithDatabase("test_db"),
			postgres.WithUsername("postgres"),
			postgres.WithPassword("postgres"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			fmt.Printf("Failed to start PostgreSQL container: %v\n", err)
			os.Exit(1)
		}

		dsn, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Printf("Failed to get connection string: %v\n", err)
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
			os.Exit(1)
		}

		fmt.Printf("Started PostgreSQL container\n")
	}

	// Connect to the database
	testDB, err = gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Initialize the database schema
	err = initializeTestDatabase(testDB)
	if err != nil {
		fmt.Printf("Failed to initialize database: %v\n", err)
		if pgContainer != nil {
			if err := pgContainer.Terminate(ctx); err != nil {
				fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
			}
		}
		os.Exit(1)
	}

	// Run tests
	code := m.Run()

	// Cleanup
	if pgContainer != nil {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate PostgreSQL container: %v\n", err)
		}
	}

	os.Exit(code)
}

// initializeTestDatabase runs the schema initialization SQL
func initializeTestDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	schemaPath := filepath.Join("..", "..", "db", "init_pg_db.sql")
	schemaSQL, err := os.ReadFile(schemaPath) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	_, err = sqlDB.Exec(string(schemaSQL))
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// initPGTestDB initializes a test store for each test.
// Each test runs inside a transaction that is rolled back on cleanup.
func initPGTestDB(t *testing.T) Store {
	tx := testDB.Begin()
	require.NotNil(t, tx)
	require.NoError(t, tx.Error)

	t.Cleanup(func() {
		tx.Rollback()
	})

	return NewPGStore(tx)
}

var testNow = time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)

// seedAssembly creates an assembly with three attendees (400/350/250 mills)
// and two pending agenda items
func seedAssembly(t *testing.T, st Store, allowConcurrent bool) (*schema.Assembly, []schema.AgendaItem, []schema.Attendee) {
	ctx := context.Background()

	assembly := &schema.Assembly{
		BuildingID:           42,
		Title:                "Annual general meeting",
		ScheduledAt:          testNow,
		Status:               schema.AssemblyStatusScheduled,
		TotalBuildingMills:   1000,
		AllowConcurrentItems: allowConcurrent,
		CreatedAt:            testNow,
	}
	require.NoError(t, st.CreateAssembly(ctx, assembly))

	items := make([]schema.AgendaItem, 0, 2)
	for i, title := range []string{"Facade renovation", "Elevator maintenance fund"} {
		item := schema.AgendaItem{
			AssemblyID:              assembly.ID,
			Position:                i + 1,
			Title:                   title,
			VotingType:              "simple_majority",
			MinParticipationPercent: 60,
			Status:                  schema.AgendaItemStatusPending,
			CreatedAt:               testNow,
		}
		require.NoError(t, st.CreateAgendaItem(ctx, &item))
		items = append(items, item)
	}

	attendees := make([]schema.Attendee, 0, 3)
	for i, mills := range []int64{400, 350, 250} {
		attendee := schema.Attendee{
			AssemblyID:         assembly.ID,
			ApartmentID:        uint64(100 + i),
			RepresentativeName: fmt.Sprintf("Resident %d", i+1),
			Mills:              mills,
			CheckedInAt:        testNow,
		}
		require.NoError(t, st.RegisterAttendee(ctx, &attendee))
		attendees = append(attendees, attendee)
	}

	return assembly, items, attendees
}

func TestRegisterAttendee_DuplicateApartment(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, _, _ := seedAssembly(t, st, false)

	dup := &schema.Attendee{
		AssemblyID:         assembly.ID,
		ApartmentID:        100,
		RepresentativeName: "Second representative",
		Mills:              10,
		CheckedInAt:        testNow,
	}
	err := st.RegisterAttendee(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrDuplicateAttendee)
}

func TestRegisterAttendee_MillsExceedTotal(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, _, _ := seedAssembly(t, st, false)

	// 400+350+250 already registered; a single extra mill overflows the total
	over := &schema.Attendee{
		AssemblyID:         assembly.ID,
		ApartmentID:        200,
		RepresentativeName: "Overflow",
		Mills:              1,
		CheckedInAt:        testNow,
	}
	err := st.RegisterAttendee(ctx, over)
	assert.ErrorIs(t, err, domain.ErrMillsExceedTotal)
}

func TestRegisterAttendee_InvalidMills(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()

	assembly := &schema.Assembly{
		BuildingID:         42,
		Title:              "Meeting",
		ScheduledAt:        testNow,
		Status:             schema.AssemblyStatusScheduled,
		TotalBuildingMills: 1000,
		CreatedAt:          testNow,
	}
	require.NoError(t, st.CreateAssembly(ctx, assembly))

	err := st.RegisterAttendee(ctx, &schema.Attendee{
		AssemblyID:         assembly.ID,
		ApartmentID:        100,
		RepresentativeName: "Too big",
		Mills:              1001,
		CheckedInAt:        testNow,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidMills)
}

func TestOpenAgendaItem_Lifecycle(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, false)

	opened, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, schema.AgendaItemStatusOpen, opened.Status)
	require.NotNil(t, opened.OpenedAt)

	// The first open flips the assembly to in_progress
	got, err := st.GetAssembly(ctx, assembly.ID)
	require.NoError(t, err)
	assert.Equal(t, schema.AssemblyStatusInProgress, got.Status)

	// A second open while the first is open violates the one-at-a-time rule
	_, err = st.OpenAgendaItem(ctx, assembly.ID, items[1].ID, testNow)
	assert.ErrorIs(t, err, domain.ErrAnotherItemOpen)

	// Reopening an already open item is not a pending transition
	_, err = st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	assert.ErrorIs(t, err, domain.ErrAgendaItemNotPending)
}

func TestOpenAgendaItem_OutOfOrder(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, false)

	// Item 2 cannot open while item 1 has not been closed
	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[1].ID, testNow)
	assert.ErrorIs(t, err, domain.ErrPreviousItemNotClosed)
}

func TestOpenAgendaItem_ConcurrentItemsAllowed(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, true)

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	_, err = st.OpenAgendaItem(ctx, assembly.ID, items[1].ID, testNow)
	assert.NoError(t, err)
}

func TestCastVote_UpsertIsIdempotent(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, attendees := seedAssembly(t, st, false)

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	vote1, v1, err := st.CastVote(ctx, assembly.ID, items[0].ID, attendees[0].ID, domain.ChoiceApprove, testNow)
	require.NoError(t, err)
	assert.Equal(t, domain.ChoiceApprove, vote1.Choice)
	assert.Nil(t, vote1.RevisedAt)

	// A second cast replaces the row instead of adding one
	later := testNow.Add(time.Minute)
	vote2, v2, err := st.CastVote(ctx, assembly.ID, items[0].ID, attendees[0].ID, domain.ChoiceReject, later)
	require.NoError(t, err)
	assert.Equal(t, vote1.ID, vote2.ID)
	assert.Equal(t, domain.ChoiceReject, vote2.Choice)
	require.NotNil(t, vote2.RevisedAt)
	assert.Greater(t, v2, v1)

	inputs, err := st.GetTallyInputs(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Len(t, inputs.Votes, 1)
}

func TestCastVote_EveryMutationBumpsVersion(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, attendees := seedAssembly(t, st, false)

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	var versions []int64
	for _, a := range attendees {
		_, v, err := st.CastVote(ctx, assembly.ID, items[0].ID, a.ID, domain.ChoiceApprove, testNow)
		require.NoError(t, err)
		versions = append(versions, v)
	}

	assert.Equal(t, []int64{1, 2, 3}, versions)
}

func TestCastVote_ClosedItemRejected(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, attendees := seedAssembly(t, st, false)

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	_, err = st.CloseAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	_, _, err = st.CastVote(ctx, assembly.ID, items[0].ID, attendees[0].ID, domain.ChoiceApprove, testNow)
	assert.ErrorIs(t, err, domain.ErrAgendaItemClosed)
}

func TestCastVote_PendingItemRejected(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, attendees := seedAssembly(t, st, false)

	_, _, err := st.CastVote(ctx, assembly.ID, items[0].ID, attendees[0].ID, domain.ChoiceApprove, testNow)
	assert.ErrorIs(t, err, domain.ErrAgendaItemClosed)
}

func TestCastVote_ForeignAttendeeRejected(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, false)

	other := &schema.Assembly{
		BuildingID:         43,
		Title:              "Other meeting",
		ScheduledAt:        testNow,
		Status:             schema.AssemblyStatusScheduled,
		TotalBuildingMills: 1000,
		CreatedAt:          testNow,
	}
	require.NoError(t, st.CreateAssembly(ctx, other))
	stranger := &schema.Attendee{
		AssemblyID:         other.ID,
		ApartmentID:        500,
		RepresentativeName: "Stranger",
		Mills:              100,
		CheckedInAt:        testNow,
	}
	require.NoError(t, st.RegisterAttendee(ctx, stranger))

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	_, _, err = st.CastVote(ctx, assembly.ID, items[0].ID, stranger.ID, domain.ChoiceApprove, testNow)
	assert.ErrorIs(t, err, domain.ErrAttendeeNotFound)
}

func TestCloseAgendaItem_Terminal(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, false)

	// Closing a pending item is invalid
	_, err := st.CloseAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	assert.ErrorIs(t, err, domain.ErrAgendaItemNotOpen)

	_, err = st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	closed, err := st.CloseAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, schema.AgendaItemStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	// Closed is terminal
	_, err = st.CloseAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	assert.ErrorIs(t, err, domain.ErrAgendaItemAlreadyClosed)
	_, err = st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	assert.ErrorIs(t, err, domain.ErrAgendaItemNotPending)
}

func TestRevokeAttendee_RemovesVotesAndReportsOpenItems(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, attendees := seedAssembly(t, st, false)

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	_, _, err = st.CastVote(ctx, assembly.ID, items[0].ID, attendees[0].ID, domain.ChoiceApprove, testNow)
	require.NoError(t, err)
	_, _, err = st.CastVote(ctx, assembly.ID, items[0].ID, attendees[1].ID, domain.ChoiceReject, testNow)
	require.NoError(t, err)

	affected, err := st.RevokeAttendee(ctx, assembly.ID, attendees[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{items[0].ID}, affected)

	_, err = st.GetAttendee(ctx, assembly.ID, attendees[0].ID)
	assert.ErrorIs(t, err, domain.ErrAttendeeNotFound)

	inputs, err := st.GetTallyInputs(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Len(t, inputs.Votes, 1)
	assert.Len(t, inputs.Attendees, 2)
	// Two casts plus the revoke bump
	assert.Equal(t, int64(3), inputs.Item.TallyVersion)
}

func TestRevokeAttendee_ClosedItemVotesUntouched(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, attendees := seedAssembly(t, st, false)

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	_, _, err = st.CastVote(ctx, assembly.ID, items[0].ID, attendees[0].ID, domain.ChoiceApprove, testNow)
	require.NoError(t, err)
	_, err = st.CloseAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	// The item is closed, so nothing needs recomputation
	affected, err := st.RevokeAttendee(ctx, assembly.ID, attendees[0].ID)
	require.NoError(t, err)
	assert.Empty(t, affected)
}

func TestFinalResult_RoundTrip(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, false)

	_, err := st.GetFinalResult(ctx, items[0].ID)
	assert.ErrorIs(t, err, domain.ErrFinalResultNotFound)

	_, err = st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	_, err = st.CloseAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	result := &schema.FinalResult{
		AgendaItemID: items[0].ID,
		Outcome:      domain.OutcomeInvalid,
		Snapshot:     datatypes.JSON(`{"agenda_item_id":1}`),
		ClosedAt:     testNow,
	}
	require.NoError(t, st.CreateFinalResult(ctx, result))

	got, err := st.GetFinalResult(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInvalid, got.Outcome)
	assert.WithinDuration(t, testNow, got.ClosedAt, time.Second)
}

func TestCreateFinalResult_FirstWriterWins(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, false)

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	_, err = st.CloseAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)

	first := &schema.FinalResult{
		AgendaItemID: items[0].ID,
		Outcome:      domain.OutcomeApproved,
		Snapshot:     datatypes.JSON(`{"version":1}`),
		ClosedAt:     testNow,
	}
	require.NoError(t, st.CreateFinalResult(ctx, first))

	// A repeated freeze keeps the stored row and loads it back
	second := &schema.FinalResult{
		AgendaItemID: items[0].ID,
		Outcome:      domain.OutcomeRejected,
		Snapshot:     datatypes.JSON(`{"version":2}`),
		ClosedAt:     testNow.Add(time.Minute),
	}
	require.NoError(t, st.CreateFinalResult(ctx, second))
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.OutcomeApproved, second.Outcome)

	got, err := st.GetFinalResult(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeApproved, got.Outcome)
}

func TestListExpiredOpenItems(t *testing.T) {
	st := initPGTestDB(t)
	ctx := context.Background()
	assembly, items, _ := seedAssembly(t, st, true)

	deadline := testNow.Add(-time.Minute)
	require.NoError(t, testDBUpdateDeadline(st, items[0].ID, &deadline))

	_, err := st.OpenAgendaItem(ctx, assembly.ID, items[0].ID, testNow)
	require.NoError(t, err)
	_, err = st.OpenAgendaItem(ctx, assembly.ID, items[1].ID, testNow)
	require.NoError(t, err)

	expired, err := st.ListExpiredOpenItems(ctx, testNow, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, items[0].ID, expired[0].ID)
}

// testDBUpdateDeadline sets an item deadline through the store's gorm handle
func testDBUpdateDeadline(st Store, itemID uint64, deadline *time.Time) error {
	pg, ok := st.(*pgStore)
	if !ok {
		return fmt.Errorf("unexpected store implementation")
	}
	return pg.db.Model(&schema.AgendaItem{}).
		Where("id = ?", itemID).
		UpdateColumn("deadline", deadline).Error
}
