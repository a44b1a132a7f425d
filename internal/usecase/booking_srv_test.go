package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func line(itemType entity.ItemType, id uuid.UUID, qty int) request.BookingLineRequest {
	return request.BookingLineRequest{Type: string(itemType), ItemID: id.String(), Quantity: qty}
}

func bookingReq(method string, lines ...request.BookingLineRequest) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		StartDate:     "2025-03-01T09:00:00Z",
		EndDate:       "2025-03-04T09:00:00Z",
		Items:         lines,
		PaymentMethod: method,
	}
}

func TestCreateBooking_CashComputesCostAndSendsReceipt(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	speaker := f.addEquipment(t, "Speaker", 100, 5)
	party := f.addPackage(t, "Party Set", 300, 2)

	f.notifier.On("QueueReceipt", mock.MatchedBy(func(r notification.Receipt) bool {
		return r.To == user.Email && r.RentalDays == 3 && r.TotalCost == 900
	})).Return().Once()

	resp, err := f.svc.Booking.CreateBooking(context.Background(), user.ID, bookingReq("cash",
		line(entity.ItemTypeEquipment, speaker.ID, 2),
		line(entity.ItemTypePackage, party.ID, 1),
	))
	require.NoError(t, err)
	assert.Equal(t, msgBookedCash, resp.Message)

	b := f.booking(t, resp.BookingID)
	assert.Equal(t, 900.0, b.TotalCost)
	assert.Equal(t, entity.BookingStatusPending, b.Status)
	assert.Equal(t, entity.PaymentStatusUnpaid, b.PaymentStatus)
	require.Len(t, b.Items, 2)
	assert.Equal(t, 600.0, b.Items[0].LineCost)
	assert.Equal(t, 300.0, b.Items[1].LineCost)
	assert.Equal(t, "Speaker", b.Items[0].ItemName)

	assert.Equal(t, 3, f.equipmentStock(t, speaker.ID))
	assert.Equal(t, 1, f.packageStock(t, party.ID))
	f.notifier.AssertExpectations(t)
}

func TestCreateBooking_RentalDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  float64
	}{
		{"same instant counts one day", "2025-03-01T09:00:00Z", "2025-03-01T09:00:00Z", 100},
		{"partial day rounds up", "2025-03-01T09:00:00Z", "2025-03-02T10:00:00Z", 200},
		{"plain dates", "2025-03-01", "2025-03-03", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.addUser(t, "Ana", entity.RoleCustomer)
			e := f.addEquipment(t, "Light", 100, 1)

			req := bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1))
			req.StartDate, req.EndDate = tt.start, tt.end

			resp, err := f.svc.Booking.CreateBooking(context.Background(), user.ID, req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.booking(t, resp.BookingID).TotalCost)
		})
	}
}

func TestCreateBooking_GCashAwaitsVerification(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)

	req := bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1))
	proof := "/images/proof.png"
	req.ProofOfPayment = &proof

	resp, err := f.svc.Booking.CreateBooking(context.Background(), user.ID, req)
	require.NoError(t, err)
	assert.Equal(t, msgBookedGCash, resp.Message)

	b := f.booking(t, resp.BookingID)
	assert.Equal(t, entity.PaymentStatusPendingVerification, b.PaymentStatus)
	require.NotNil(t, b.ProofOfPayment)
	assert.Equal(t, proof, *b.ProofOfPayment)
	f.notifier.AssertNotCalled(t, "QueueReceipt", mock.Anything)
}

func TestCreateBooking_Rejections(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 2)
	missing := uuid.New()

	t.Run("empty cart", func(t *testing.T) {
		_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID, bookingReq("cash"))
		assert.ErrorIs(t, err, ErrValidation)
		assert.EqualError(t, err, "Cart is empty")
	})

	t.Run("missing fields", func(t *testing.T) {
		req := bookingReq("cash", line(entity.ItemTypeEquipment, e.ID, 1))
		req.StartDate = ""
		_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID, req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("end before start", func(t *testing.T) {
		req := bookingReq("cash", line(entity.ItemTypeEquipment, e.ID, 1))
		req.StartDate, req.EndDate = req.EndDate, req.StartDate
		_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID, req)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID,
			bookingReq("cash", line(entity.ItemTypeEquipment, missing, 1)))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.EqualError(t, err, "Equipment not found: "+missing.String())
	})

	t.Run("unknown package", func(t *testing.T) {
		_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID,
			bookingReq("cash", line(entity.ItemTypePackage, missing, 1)))
		assert.EqualError(t, err, "Package not found: "+missing.String())
	})

	t.Run("insufficient stock leaves stock alone", func(t *testing.T) {
		_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID,
			bookingReq("cash", line(entity.ItemTypeEquipment, e.ID, 5)))

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.Equal(t, "Not enough stock for Speaker. Available: 2, Requested: 5", err.Error())
		assert.Equal(t, 2, f.equipmentStock(t, e.ID))
	})

	bookings, err := f.repo.Booking.FindAll(context.Background(), repository.BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

// shortInventory refuses every reservation of one item, as if another
// request took the last units between the check and the reserve.
type shortInventory struct {
	repository.InventoryRepository
	shortID uuid.UUID
}

func (s *shortInventory) Reserve(ctx context.Context, itemType entity.ItemType, id uuid.UUID, qty int) (bool, error) {
	if id == s.shortID {
		return false, nil
	}
	return s.InventoryRepository.Reserve(ctx, itemType, id, qty)
}

func TestCreateBooking_PartialReservationIsUndone(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	first := f.addEquipment(t, "Speaker", 100, 4)
	second := f.addPackage(t, "Party Set", 300, 1)
	f.repo.Inventory = &shortInventory{InventoryRepository: f.repo.Inventory, shortID: second.ID}

	_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID, bookingReq("cash",
		line(entity.ItemTypeEquipment, first.ID, 3),
		line(entity.ItemTypePackage, second.ID, 1),
	))
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 4, f.equipmentStock(t, first.ID))
	assert.Equal(t, 1, f.packageStock(t, second.ID))
}

func TestCreateBooking_ConcurrentRequestsNeverOverbook(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Generator", 500, 3)

	const workers = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID,
				bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1)))
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, ErrInsufficientStock), "unexpected error: %v", err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, success)
	assert.Equal(t, 0, f.equipmentStock(t, e.ID))
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser(t, "Ana", entity.RoleCustomer)
	other := f.addUser(t, "Ben", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	ctx := context.Background()

	resp, err := f.svc.Booking.CreateBooking(ctx, owner.ID, bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 2)))
	require.NoError(t, err)
	id := uuid.MustParse(resp.BookingID)
	require.Equal(t, 1, f.equipmentStock(t, e.ID))

	err = f.svc.Booking.CancelBooking(ctx, id, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.svc.Booking.CancelBooking(ctx, id, owner.ID))
	assert.Equal(t, 3, f.equipmentStock(t, e.ID))

	b := f.booking(t, resp.BookingID)
	assert.Equal(t, entity.BookingStatusCancelled, b.Status)
	assert.NotNil(t, b.CancelledAt)
	assert.Equal(t, entity.PaymentStatusUnpaid, b.PaymentStatus)

	err = f.svc.Booking.CancelBooking(ctx, id, owner.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.EqualError(t, err, "Only pending bookings can be cancelled")
	assert.Equal(t, 3, f.equipmentStock(t, e.ID), "second cancel must not release again")

	_, err = f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{Approved: boolPtr(false)})
	assert.ErrorIs(t, err, ErrNotPendingVerification)
	assert.Equal(t, 3, f.equipmentStock(t, e.ID))
}

func TestCancelBooking_OnlyPending(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	ctx := context.Background()

	resp, err := f.svc.Booking.CreateBooking(ctx, owner.ID, bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1)))
	require.NoError(t, err)
	id := uuid.MustParse(resp.BookingID)

	require.NoError(t, f.svc.Booking.UpdateStatus(ctx, id, &request.UpdateBookingStatusRequest{Status: "confirmed"}))

	err = f.svc.Booking.CancelBooking(ctx, id, owner.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, 2, f.equipmentStock(t, e.ID))

	err = f.svc.Booking.CancelBooking(ctx, uuid.New(), owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	ctx := context.Background()

	resp, err := f.svc.Booking.CreateBooking(ctx, owner.ID, bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1)))
	require.NoError(t, err)
	id := uuid.MustParse(resp.BookingID)

	err = f.svc.Booking.UpdateStatus(ctx, id, &request.UpdateBookingStatusRequest{Status: "archived"})
	assert.ErrorIs(t, err, ErrValidation)

	// the override is free-form: completed straight back to pending is allowed
	require.NoError(t, f.svc.Booking.UpdateStatus(ctx, id, &request.UpdateBookingStatusRequest{Status: "completed"}))
	require.NoError(t, f.svc.Booking.UpdateStatus(ctx, id, &request.UpdateBookingStatusRequest{Status: "pending"}))
	assert.Equal(t, entity.BookingStatusPending, f.booking(t, resp.BookingID).Status)

	// no stock moves on an override
	assert.Equal(t, 2, f.equipmentStock(t, e.ID))

	err = f.svc.Booking.UpdateStatus(ctx, uuid.New(), &request.UpdateBookingStatusRequest{Status: "completed"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveIssue(t *testing.T) {
	tests := []struct {
		name       string
		amount     request.LooseText
		status     string
		wantAmount float64
		wantStatus entity.BookingStatus
	}{
		{"decimal amount", "150.50", "", 150.5, entity.BookingStatusResolved},
		{"garbage is zero", "abc", "", 0, entity.BookingStatusResolved},
		{"negative is zero", "-20", "", 0, entity.BookingStatusResolved},
		{"explicit status", "10", "completed", 10, entity.BookingStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			owner := f.addUser(t, "Ana", entity.RoleCustomer)
			e := f.addEquipment(t, "Speaker", 100, 3)
			ctx := context.Background()

			resp, err := f.svc.Booking.CreateBooking(ctx, owner.ID, bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1)))
			require.NoError(t, err)

			err = f.svc.Booking.ResolveIssue(ctx, uuid.MustParse(resp.BookingID), &request.ResolveIssueRequest{
				AdditionalPayment: tt.amount,
				IssueNotes:        "scratched casing",
				Status:            tt.status,
			})
			require.NoError(t, err)

			b := f.booking(t, resp.BookingID)
			assert.Equal(t, tt.wantAmount, b.AdditionalPayment)
			assert.Equal(t, tt.wantStatus, b.Status)
			require.NotNil(t, b.IssueNotes)
			assert.Equal(t, "scratched casing", *b.IssueNotes)
			assert.NotNil(t, b.ResolvedAt)
			assert.Equal(t, 2, f.equipmentStock(t, e.ID))
		})
	}
}

// racingBookings runs a concurrent action once, just before an admin write
// reaches the store.
type racingBookings struct {
	repository.BookingRepository
	once   sync.Once
	before func()
}

func (r *racingBookings) SetStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	r.once.Do(r.before)
	return r.BookingRepository.SetStatus(ctx, id, status, at)
}

func (r *racingBookings) ResolveIssue(ctx context.Context, id uuid.UUID, res repository.IssueResolution) error {
	r.once.Do(r.before)
	return r.BookingRepository.ResolveIssue(ctx, id, res)
}

func TestAdminWrites_KeepConcurrentRejection(t *testing.T) {
	tests := []struct {
		name  string
		write func(f *fixture, id uuid.UUID) error
	}{
		{
			name: "resolve issue",
			write: func(f *fixture, id uuid.UUID) error {
				return f.svc.Booking.ResolveIssue(context.Background(), id, &request.ResolveIssueRequest{
					AdditionalPayment: "50",
					IssueNotes:        "scratched case",
				})
			},
		},
		{
			name: "status override",
			write: func(f *fixture, id uuid.UUID) error {
				return f.svc.Booking.UpdateStatus(context.Background(), id, &request.UpdateBookingStatusRequest{Status: "completed"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.addUser(t, "Ana", entity.RoleCustomer)
			e := f.addEquipment(t, "Speaker", 100, 3)
			id := f.gcashBooking(t, user, e, 3)
			ctx := context.Background()
			f.notifier.On("QueueRejection", mock.Anything).Return().Once()

			f.repo.Booking = &racingBookings{
				BookingRepository: f.repo.Booking,
				before: func() {
					_, err := f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{Approved: boolPtr(false)})
					require.NoError(t, err)
				},
			}

			require.NoError(t, tt.write(f, id))
			assert.Equal(t, 3, f.equipmentStock(t, e.ID))

			b := f.booking(t, id.String())
			assert.Equal(t, entity.PaymentStatusRejected, b.PaymentStatus)
			assert.NotNil(t, b.RejectedAt)
			require.NotNil(t, b.RejectionReason)

			_, err := f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{Approved: boolPtr(false)})
			assert.ErrorIs(t, err, ErrNotPendingVerification)
			assert.Equal(t, 3, f.equipmentStock(t, e.ID))
			f.notifier.AssertExpectations(t)
		})
	}
}

func TestResolveIssue_KeepsFirstResolvedAt(t *testing.T) {
	f := newFixture(t)
	owner := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	id := f.gcashBooking(t, owner, e, 1)
	ctx := context.Background()

	require.NoError(t, f.svc.Booking.ResolveIssue(ctx, id, &request.ResolveIssueRequest{IssueNotes: "first"}))
	first := f.booking(t, id.String()).ResolvedAt
	require.NotNil(t, first)

	require.NoError(t, f.svc.Booking.ResolveIssue(ctx, id, &request.ResolveIssueRequest{IssueNotes: "second"}))
	b := f.booking(t, id.String())
	assert.Equal(t, *first, *b.ResolvedAt)
	require.NotNil(t, b.IssueNotes)
	assert.Equal(t, "second", *b.IssueNotes)
	assert.Equal(t, entity.PaymentStatusPendingVerification, b.PaymentStatus)
}

func TestListBookings_NewestFirstWithOwnerName(t *testing.T) {
	f := newFixture(t)
	ana := f.addUser(t, "Ana", entity.RoleCustomer)
	ben := f.addUser(t, "Ben", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 10)
	ctx := context.Background()

	first, err := f.svc.Booking.CreateBooking(ctx, ana.ID, bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1)))
	require.NoError(t, err)
	second, err := f.svc.Booking.CreateBooking(ctx, ben.ID, bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, 1)))
	require.NoError(t, err)

	all, err := f.svc.Booking.ListBookings(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.BookingID, all[0].ID)
	assert.Equal(t, first.BookingID, all[1].ID)
	require.NotNil(t, all[0].Customer)
	assert.Equal(t, "Ben", all[0].Customer.FullName)

	mine, err := f.svc.Booking.ListBookings(ctx, &ana.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.BookingID, mine[0].ID)

	_, err = f.svc.Booking.GetBooking(ctx, uuid.MustParse(first.BookingID), ben.ID, false)
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := f.svc.Booking.GetBooking(ctx, uuid.MustParse(first.BookingID), ben.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 3, got.RentalDays)
	assert.Equal(t, "Ana", got.Customer.FullName)
}
