package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rental-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	mu       sync.Mutex
	failures int
	sent     []sentMail
	calls    int
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

func (m *fakeMailer) snapshot() ([]sentMail, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...), m.calls
}

func sampleItems() []entity.BookingItem {
	return []entity.BookingItem{
		{Type: entity.ItemTypeEquipment, ItemID: uuid.New(), ItemName: "Speaker", UnitPrice: 100, Quantity: 2, LineCost: 600},
		{Type: entity.ItemTypePackage, ItemID: uuid.New(), ItemName: "Party Set", UnitPrice: 300, Quantity: 1, LineCost: 300},
	}
}

func TestEmailNotifier_OTP(t *testing.T) {
	m := &fakeMailer{}
	n := NewEmailNotifier(m, "help@example.com")

	err := n.SendOTP(context.Background(), OTPMessage{
		To: "ana@example.com", Name: "Ana", Code: "482913", ExpiresIn: 10 * time.Minute,
	})
	require.NoError(t, err)

	sent, _ := m.snapshot()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@example.com", sent[0].to)
	assert.Contains(t, sent[0].body, "Welcome to Remrose, Ana")
	assert.Contains(t, sent[0].body, "482913")
	assert.Contains(t, sent[0].body, "expire in 10 minutes")
}

func TestEmailNotifier_Receipt(t *testing.T) {
	m := &fakeMailer{}
	n := NewEmailNotifier(m, "help@example.com")

	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	err := n.SendReceipt(context.Background(), Receipt{
		BookingID: "b-1", To: "ana@example.com", Name: "Ana",
		Items: sampleItems(), StartDate: start, EndDate: start.Add(72 * time.Hour),
		RentalDays: 3, TotalCost: 900, PaymentMethod: entity.PaymentMethodCash,
	})
	require.NoError(t, err)

	sent, _ := m.snapshot()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].subject, "b-1")
	assert.Contains(t, sent[0].body, "₱900.00")
	assert.Contains(t, sent[0].body, "Cash on Pickup")
	assert.Contains(t, sent[0].body, "3 day(s)")
	assert.Contains(t, sent[0].body, "(flat)")
	assert.Contains(t, sent[0].body, "help@example.com")
}

func TestEmailNotifier_Rejection(t *testing.T) {
	m := &fakeMailer{}
	n := NewEmailNotifier(m, "help@example.com")

	err := n.SendRejection(context.Background(), Rejection{
		BookingID: "b-2", To: "ana@example.com", Name: "Ana",
		Items: sampleItems(), TotalCost: 900, Reason: "blurry proof",
	})
	require.NoError(t, err)

	sent, _ := m.snapshot()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].subject, "Payment Verification Failed")
	assert.Contains(t, sent[0].body, "blurry proof")
	assert.Contains(t, sent[0].body, "returned to inventory")
	assert.Contains(t, sent[0].body, "Speaker - Qty: 2")
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, p.NextDelay(0))
	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, 5*time.Second, p.NextDelay(4))
}

func testPolicy(retries int) RetryPolicy {
	return RetryPolicy{MaxRetries: retries, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffFactor: 2}
}

func TestDispatcher_RetriesUntilDelivered(t *testing.T) {
	m := &fakeMailer{failures: 2}
	d := NewDispatcher(NewEmailNotifier(m, "help@example.com"), testPolicy(3), 1, zap.NewNop())

	d.QueueReceipt(Receipt{BookingID: "b-1", To: "ana@example.com", Items: sampleItems()})
	require.NoError(t, d.Close(context.Background()))

	sent, calls := m.snapshot()
	assert.Len(t, sent, 1)
	assert.Equal(t, 3, calls)
}

func TestDispatcher_GivesUpAfterMaxRetries(t *testing.T) {
	m := &fakeMailer{failures: 10}
	d := NewDispatcher(NewEmailNotifier(m, "help@example.com"), testPolicy(2), 1, zap.NewNop())

	d.QueueRejection(Rejection{BookingID: "b-1", To: "ana@example.com", Reason: "x"})
	require.NoError(t, d.Close(context.Background()))

	sent, calls := m.snapshot()
	assert.Empty(t, sent)
	assert.Equal(t, 3, calls)
}

func TestDispatcher_SendOTPIsSynchronous(t *testing.T) {
	m := &fakeMailer{failures: 1}
	d := NewDispatcher(NewEmailNotifier(m, ""), testPolicy(3), 1, zap.NewNop())
	defer d.Close(context.Background())

	err := d.SendOTP(context.Background(), OTPMessage{To: "a@example.com", Code: "123456", ExpiresIn: time.Minute})
	assert.Error(t, err)

	err = d.SendOTP(context.Background(), OTPMessage{To: "a@example.com", Code: "123456", ExpiresIn: time.Minute})
	assert.NoError(t, err)
}

func TestDispatcher_DropsAfterClose(t *testing.T) {
	m := &fakeMailer{}
	d := NewDispatcher(NewEmailNotifier(m, ""), testPolicy(0), 1, zap.NewNop())
	require.NoError(t, d.Close(context.Background()))

	d.QueueReceipt(Receipt{BookingID: "late"})

	_, calls := m.snapshot()
	assert.Zero(t, calls)
}
