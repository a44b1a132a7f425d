package usecase

import (
	"context"
	"testing"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool { return &v }

func (f *fixture) gcashBooking(t *testing.T, user *entity.User, e *entity.Equipment, qty int) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Booking.CreateBooking(context.Background(), user.ID,
		bookingReq("gcash", line(entity.ItemTypeEquipment, e.ID, qty)))
	require.NoError(t, err)
	return uuid.MustParse(resp.BookingID)
}

func TestVerifyPayment_Approve(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	id := f.gcashBooking(t, user, e, 2)
	ctx := context.Background()

	f.notifier.On("QueueReceipt", mock.MatchedBy(func(r notification.Receipt) bool {
		return r.BookingID == id.String() && r.PaymentMethod == entity.PaymentMethodGCash
	})).Return().Once()

	msg, err := f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{Approved: boolPtr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Payment verified and booking confirmed. Receipt sent to customer.", msg)

	b := f.booking(t, id.String())
	assert.Equal(t, entity.PaymentStatusPaid, b.PaymentStatus)
	assert.Equal(t, entity.BookingStatusConfirmed, b.Status)
	assert.NotNil(t, b.PaymentVerifiedAt)
	assert.Equal(t, 1, f.equipmentStock(t, e.ID))

	_, err = f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{Approved: boolPtr(false)})
	assert.ErrorIs(t, err, ErrNotPendingVerification)
	assert.Equal(t, 1, f.equipmentStock(t, e.ID))
	f.notifier.AssertExpectations(t)
}

func TestVerifyPayment_RejectRestoresStock(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	id := f.gcashBooking(t, user, e, 3)
	ctx := context.Background()
	require.Equal(t, 0, f.equipmentStock(t, e.ID))

	f.notifier.On("QueueRejection", mock.MatchedBy(func(r notification.Rejection) bool {
		return r.To == user.Email && r.Reason == "blurry proof"
	})).Return().Once()

	msg, err := f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{
		Approved:        boolPtr(false),
		RejectionReason: "blurry proof",
	})
	require.NoError(t, err)
	assert.Equal(t, "Payment rejected and booking cancelled. Quantities restored.", msg)

	b := f.booking(t, id.String())
	assert.Equal(t, entity.PaymentStatusRejected, b.PaymentStatus)
	assert.Equal(t, entity.BookingStatusCancelled, b.Status)
	require.NotNil(t, b.RejectionReason)
	assert.Equal(t, "blurry proof", *b.RejectionReason)
	assert.NotNil(t, b.RejectedAt)
	assert.Equal(t, 3, f.equipmentStock(t, e.ID))

	_, err = f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{Approved: boolPtr(false)})
	assert.ErrorIs(t, err, ErrNotPendingVerification)
	assert.Equal(t, 3, f.equipmentStock(t, e.ID), "a booking is rejected once")
	f.notifier.AssertExpectations(t)
}

func TestVerifyPayment_DefaultReasonAndGuards(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	id := f.gcashBooking(t, user, e, 1)
	ctx := context.Background()

	_, err := f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Payment.VerifyPayment(ctx, uuid.New(), &request.VerifyPaymentRequest{Approved: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotFound)

	f.notifier.On("QueueRejection", mock.MatchedBy(func(r notification.Rejection) bool {
		return r.Reason == defaultRejectionReason
	})).Return().Once()

	_, err = f.svc.Payment.VerifyPayment(ctx, id, &request.VerifyPaymentRequest{Approved: boolPtr(false), RejectionReason: "   "})
	require.NoError(t, err)
	f.notifier.AssertExpectations(t)
}

func TestVerifyPayment_MissingOwnerChangesNothing(t *testing.T) {
	f := newFixture(t)
	e := f.addEquipment(t, "Speaker", 100, 3)
	ctx := context.Background()

	orphan := &entity.Booking{
		BaseNoDelete:  entity.BaseNoDelete{ID: uuid.New(), CreatedAt: time.Now()},
		UserID:        uuid.New(),
		Items:         []entity.BookingItem{{Type: entity.ItemTypeEquipment, ItemID: e.ID, Quantity: 2}},
		Status:        entity.BookingStatusPending,
		PaymentMethod: entity.PaymentMethodGCash,
		PaymentStatus: entity.PaymentStatusPendingVerification,
	}
	require.NoError(t, f.repo.Booking.Create(ctx, orphan))

	for _, approved := range []bool{true, false} {
		_, err := f.svc.Payment.VerifyPayment(ctx, orphan.ID, &request.VerifyPaymentRequest{Approved: boolPtr(approved)})
		assert.ErrorIs(t, err, ErrNotFound)
	}

	b := f.booking(t, orphan.ID.String())
	assert.Equal(t, entity.PaymentStatusPendingVerification, b.PaymentStatus)
	assert.Equal(t, entity.BookingStatusPending, b.Status)
	assert.Nil(t, b.RejectedAt)
	assert.Equal(t, 3, f.equipmentStock(t, e.ID))
	f.notifier.AssertNotCalled(t, "QueueRejection", mock.Anything)
	f.notifier.AssertNotCalled(t, "QueueReceipt", mock.Anything)
}

func TestVerifyPayment_CashIsNotVerifiable(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 3)
	f.notifier.On("QueueReceipt", mock.Anything).Return()

	resp, err := f.svc.Booking.CreateBooking(context.Background(), user.ID,
		bookingReq("cash", line(entity.ItemTypeEquipment, e.ID, 1)))
	require.NoError(t, err)

	_, err = f.svc.Payment.VerifyPayment(context.Background(), uuid.MustParse(resp.BookingID),
		&request.VerifyPaymentRequest{Approved: boolPtr(true)})
	assert.ErrorIs(t, err, ErrNotPendingVerification)
}

func TestDiagnostics(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "Ana", entity.RoleCustomer)
	e := f.addEquipment(t, "Speaker", 100, 10)
	f.notifier.On("QueueReceipt", mock.Anything).Return()

	pending := f.gcashBooking(t, user, e, 1)
	_, err := f.svc.Booking.CreateBooking(context.Background(), user.ID,
		bookingReq("cash", line(entity.ItemTypeEquipment, e.ID, 1)))
	require.NoError(t, err)

	d, err := f.svc.Payment.Diagnostics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalBookings)
	assert.Equal(t, 1, d.GCashPayments)
	assert.Equal(t, 1, d.PendingVerification)
	require.Len(t, d.PendingVerificationDetails, 1)
	assert.Equal(t, pending.String(), d.PendingVerificationDetails[0].ID)
	assert.False(t, d.PendingVerificationDetails[0].HasProof)
	assert.ElementsMatch(t, []entity.PaymentStatus{entity.PaymentStatusUnpaid, entity.PaymentStatusPendingVerification}, d.AllPaymentStatuses)
	assert.ElementsMatch(t, []entity.PaymentMethod{entity.PaymentMethodCash, entity.PaymentMethodGCash}, d.AllPaymentMethods)
}
