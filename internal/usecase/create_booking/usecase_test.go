package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-HallBooking/internal/infra/storage/booking"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
	"github.com/m04kA/SMC-HallBooking/pkg/logger"
	"github.com/m04kA/SMC-HallBooking/pkg/ptr"
	"github.com/m04kA/SMC-HallBooking/pkg/txmanager"
	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

// ── Mock BookingRepository ──

type mockBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int64

	locks     int
	lockErr   error
	getErr    error
	createErr error
}

func newMockBookingRepo(existing ...*domain.Booking) *mockBookingRepo {
	return &mockBookingRepo{bookings: existing, nextID: 100}
}

func (m *mockBookingRepo) LockHallDate(_ context.Context, _ domain.HallID, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks++
	return m.lockErr
}

func (m *mockBookingRepo) GetByHallAndDate(_ context.Context, hall domain.HallID, date time.Time) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	result := make([]*domain.Booking, 0)
	for _, b := range m.bookings {
		if b.Hall == hall && b.BookingDate.Equal(date) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	booking.ID = m.nextID
	booking.CreatedAt = time.Date(2026, 5, 11, 10, 0, 0, 0, time.UTC)
	booking.UpdatedAt = booking.CreatedAt
	m.bookings = append(m.bookings, booking)
	return booking, nil
}

// truncate откатывает вставки, как rollback транзакции
func (m *mockBookingRepo) truncate(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = m.bookings[:n]
}

func (m *mockBookingRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

// ── Mock TransactionManager ──

// mockTxManager сериализует все транзакции одним мьютексом, как advisory-блокировка в БД
type mockTxManager struct {
	mu    sync.Mutex
	calls int
	// failures первые N транзакций завершаются serialization failure до выполнения fn
	failures int
	// commitFailures следующие N транзакций выполняют fn, но падают на commit
	commitFailures int
	rollback       func()
}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return fmt.Errorf("%w: %w", txmanager.ErrCommitTx, txmanager.ErrSerialization)
	}
	if err := fn(ctx); err != nil {
		return err
	}
	if m.calls <= m.failures+m.commitFailures {
		if m.rollback != nil {
			m.rollback()
		}
		return fmt.Errorf("%w: %w", txmanager.ErrCommitTx, txmanager.ErrSerialization)
	}
	return nil
}

// ── Mock Notifier / Metrics / Time ──

type mockNotifier struct {
	mu       sync.Mutex
	notified []int64
	err      error
}

func (m *mockNotifier) NotifyBookingCreated(_ context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, booking.ID)
	return m.err
}

type mockMetrics struct {
	mu       sync.Mutex
	admitted int
	rejected int
	rules    []string
}

func (m *mockMetrics) RecordVerdict(_ string, admitted bool, rules []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if admitted {
		m.admitted++
	} else {
		m.rejected++
	}
	m.rules = append(m.rules, rules...)
}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time { return f.now }

// ── Helpers ──

var (
	now         = time.Date(2026, 5, 11, 8, 0, 0, 0, time.UTC)
	bookingDate = time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	uc       *UseCase
	repo     *mockBookingRepo
	tx       *mockTxManager
	notifier *mockNotifier
	metrics  *mockMetrics
}

func setup(existing ...*domain.Booking) *fixture {
	f := &fixture{
		repo:     newMockBookingRepo(existing...),
		tx:       &mockTxManager{},
		notifier: &mockNotifier{},
		metrics:  &mockMetrics{},
	}
	f.uc = NewUseCase(f.repo, f.notifier, f.metrics, f.tx, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func stored(id int64, start, end string, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		Hall:        domain.HallConventionCenter,
		BookingDate: bookingDate,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Status:      status,
	}
}

func request(start, end string) *Request {
	return &Request{
		UserID:         42,
		Hall:           string(domain.HallConventionCenter),
		Date:           bookingDate,
		StartTime:      start,
		EndTime:        end,
		RequesterName:  " Asha Rao ",
		Department:     "Mechanical Engineering",
		RequesterEmail: ptr.Ptr("asha@example.edu"),
		Purpose:        "Department seminar",
	}
}

// ── Tests ──

func TestExecute_Success(t *testing.T) {
	f := setup(stored(1, "09:00", "10:00", domain.StatusConfirmed))

	resp, err := f.uc.Execute(context.Background(), request("10:00", "11:30"))
	require.NoError(t, err)

	assert.Equal(t, int64(101), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "Convention Center", resp.HallName)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("11:30"), resp.EndTime)
	assert.Equal(t, "Asha Rao", resp.RequesterName)
	assert.Equal(t, int64(42), resp.CreatedBy)

	assert.Equal(t, 2, f.repo.count())
	assert.Equal(t, 1, f.repo.locks)
	assert.Equal(t, []int64{101}, f.notifier.notified)
	assert.Equal(t, 1, f.metrics.admitted)
}

func TestExecute_ConflictOnly(t *testing.T) {
	f := setup(stored(1, "13:15", "14:00", domain.StatusConfirmed))

	_, err := f.uc.Execute(context.Background(), request("13:00", "13:30"))
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, scheduling.ErrConflict)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.True(t, rejected.ConflictOnly())
	assert.Equal(t, 1, rejected.Verdict.ConflictCount())
	assert.Contains(t, rejected.Verdict.Reasons()["conflict"], "13:15-14:00")

	assert.Equal(t, 1, f.repo.count())
	assert.Empty(t, f.notifier.notified)
	assert.Equal(t, 1, f.metrics.rejected)
	assert.Equal(t, []string{"conflict"}, f.metrics.rules)
}

func TestExecute_MultipleViolations(t *testing.T) {
	f := setup(stored(1, "08:00", "09:30", domain.StatusPending))

	_, err := f.uc.Execute(context.Background(), request("08:30", "08:45"))

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.False(t, rejected.ConflictOnly())
	assert.Equal(t,
		[]scheduling.Rule{scheduling.RuleDuration, scheduling.RuleBusinessHours, scheduling.RuleConflict},
		rejected.Verdict.Rules())
}

func TestExecute_CancelledBookingDoesNotBlock(t *testing.T) {
	f := setup(stored(1, "13:15", "14:00", domain.StatusCancelled))

	_, err := f.uc.Execute(context.Background(), request("13:00", "13:30"))
	assert.NoError(t, err)
}

func TestExecute_OtherHallDoesNotBlock(t *testing.T) {
	other := stored(1, "13:00", "14:00", domain.StatusConfirmed)
	other.Hall = domain.HallLaboratory
	f := setup(other)

	_, err := f.uc.Execute(context.Background(), request("13:00", "14:00"))
	assert.NoError(t, err)
}

func TestExecute_PastDate(t *testing.T) {
	f := setup()
	req := request("10:00", "11:00")
	req.Date = now.AddDate(0, 0, -1)

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, scheduling.ErrInvalidDate)
}

func TestExecute_UnknownHall(t *testing.T) {
	f := setup()
	req := request("10:00", "11:00")
	req.Hall = "rooftop"

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, scheduling.ErrUnknownHall)
	assert.Equal(t, 0, f.repo.count())
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "no user", modify: func(r *Request) { r.UserID = 0 }},
		{name: "no date", modify: func(r *Request) { r.Date = time.Time{} }},
		{name: "no start", modify: func(r *Request) { r.StartTime = "" }},
		{name: "no end", modify: func(r *Request) { r.EndTime = "  " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup()
			req := request("10:00", "11:00")
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, f.tx.calls)
		})
	}
}

func TestExecute_RequesterFieldsAreRuleViolations(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "no requester", modify: func(r *Request) { r.RequesterName = "  " }},
		{name: "no department", modify: func(r *Request) { r.Department = "" }},
		{name: "bad email", modify: func(r *Request) { r.RequesterEmail = ptr.Ptr("not-an-email") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup()
			req := request("10:00", "11:00")
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrRejected)
			assert.ErrorIs(t, err, scheduling.ErrInvalidRequester)
			assert.Equal(t, 0, f.repo.count())
		})
	}
}

func TestExecute_MissingDepartmentDoesNotHideConflict(t *testing.T) {
	f := setup(stored(1, "13:15", "14:00", domain.StatusConfirmed))
	req := request("13:00", "13:30")
	req.Department = ""

	_, err := f.uc.Execute(context.Background(), req)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.False(t, rejected.ConflictOnly())
	assert.Equal(t, []scheduling.Rule{scheduling.RuleRequester, scheduling.RuleConflict}, rejected.Verdict.Rules())
	assert.Equal(t, 1, rejected.Verdict.ConflictCount())
	assert.Equal(t, []string{"requester", "conflict"}, f.metrics.rules)
}

func TestExecute_EmptyEmailIsOptional(t *testing.T) {
	f := setup()
	req := request("10:00", "11:00")
	req.RequesterEmail = ptr.Ptr("  ")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, resp.RequesterEmail)
}

func TestExecute_ExclusionViolation(t *testing.T) {
	f := setup()
	f.repo.createErr = fmt.Errorf("%w: Create - execute insert: conflicting key value", bookingRepo.ErrSlotNotAvailable)

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 1, f.tx.calls)
}

func TestExecute_RetriesSerializationFailure(t *testing.T) {
	f := setup()
	f.tx.failures = 2

	resp, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, 3, f.tx.calls)
}

func TestExecute_RetriedAttemptsRecordOneVerdict(t *testing.T) {
	f := setup()
	f.tx.commitFailures = 2
	f.tx.rollback = func() { f.repo.truncate(0) }

	resp, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, 3, f.tx.calls)
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, 1, f.metrics.admitted)
	assert.Equal(t, 0, f.metrics.rejected)
}

func TestExecute_NoVerdictWhenTransactionNeverValidated(t *testing.T) {
	f := setup()
	f.tx.failures = maxAttempts

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 0, f.metrics.admitted+f.metrics.rejected)
}

func TestExecute_SerializationFailureExhausted(t *testing.T) {
	f := setup()
	f.tx.failures = maxAttempts

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, maxAttempts, f.tx.calls)
}

func TestExecute_NotifierFailureIsNotFatal(t *testing.T) {
	f := setup()
	f.notifier.err = errors.New("mail service down")

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	assert.NoError(t, err)
	assert.Equal(t, 1, f.repo.count())
}

func TestExecute_RepositoryError(t *testing.T) {
	f := setup()
	f.repo.getErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), request("10:00", "11:00"))

	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_UnparseableStoredBookingFailsClosed(t *testing.T) {
	f := setup(stored(7, "garbage", "11:00", domain.StatusConfirmed))

	_, err := f.uc.Execute(context.Background(), request("14:00", "15:00"))

	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, f.repo.count())
}

func TestExecute_ConcurrentOverlappingRequests(t *testing.T) {
	f := setup()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// все интервалы пересекаются на 11:00-11:30
			start := []string{"10:00", "11:00"}[i%2]
			_, err := f.uc.Execute(context.Background(), request(start, "11:30"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, scheduling.ErrConflict):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, f.repo.count())
}
