package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbasket/checkout-service/internal/domain/model"
	"github.com/farmbasket/checkout-service/internal/gateway"
)

func newTestManager(t *testing.T, opts ...ManagerOption) *Manager {
	t.Helper()
	m := NewManager(ManagerDeps{
		Gateway:         &fakeGateway{},
		Collector:       gateway.NewCollector(),
		Orders:          &fakeOrders{},
		Recorder:        &fakeRecorder{},
		SignatureSecret: testSecret,
	}, opts...)
	t.Cleanup(m.Close)
	return m
}

func TestManager_BeginRequiresLines(t *testing.T) {
	m := newTestManager(t)
	store := seededStore(t)
	require.NoError(t, store.Clear(context.Background()))

	_, err := m.Begin(context.Background(), "owner-1", store)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = m.Session("owner-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_BeginReplacesAbandonedSession(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := seededStore(t)

	first, err := m.Begin(ctx, "owner-1", store)
	require.NoError(t, err)

	second, err := m.Begin(ctx, "owner-1", store)
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	ctrl, err := m.Session("owner-1")
	require.NoError(t, err)
	assert.Equal(t, second.SessionID, ctrl.State().SessionID)
	assert.Equal(t, model.StepAddress, ctrl.State().Step)
}

func TestManager_BeginRefusedWhilePaymentPending(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := seededStore(t)

	_, err := m.Begin(ctx, "owner-1", store)
	require.NoError(t, err)
	ctrl, err := m.Session("owner-1")
	require.NoError(t, err)

	_, err = ctrl.SubmitAddress(ctx, model.Address{FullName: "Asha Patil"})
	require.NoError(t, err)
	_, err = ctrl.SelectPayment(ctx, model.PaymentOnline)
	require.NoError(t, err)
	st, err := ctrl.Confirm(ctx)
	require.NoError(t, err)
	require.Equal(t, model.StepProcessing, st.Step)
	require.NotNil(t, st.GatewayOrder)
	gwID := st.GatewayOrder.GatewayOrderID

	// The widget is still open; replacing the session now would leave the
	// pending collection with no session to attribute a capture to.
	_, err = m.Begin(ctx, "owner-1", store)
	assert.ErrorIs(t, err, ErrPaymentInFlight)

	found, err := m.SessionByGatewayOrder(gwID)
	require.NoError(t, err)
	assert.Equal(t, st.SessionID, found.State().SessionID)

	// Once the buyer closes the widget the attempt can be restarted.
	_, err = ctrl.HandleGatewayDismiss(ctx)
	require.NoError(t, err)

	next, err := m.Begin(ctx, "owner-1", store)
	require.NoError(t, err)
	assert.NotEqual(t, st.SessionID, next.SessionID)
}

func TestManager_SessionByGatewayOrder(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()
	store := seededStore(t)

	_, err := m.Begin(ctx, "owner-1", store)
	require.NoError(t, err)

	ctrl, err := m.Session("owner-1")
	require.NoError(t, err)
	_, err = ctrl.SubmitAddress(ctx, model.Address{FullName: "Asha Patil"})
	require.NoError(t, err)
	_, err = ctrl.SelectPayment(ctx, model.PaymentOnline)
	require.NoError(t, err)
	st, err := ctrl.Confirm(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.GatewayOrder)

	found, err := m.SessionByGatewayOrder(st.GatewayOrder.GatewayOrderID)
	require.NoError(t, err)
	assert.Equal(t, st.SessionID, found.State().SessionID)

	_, err = m.SessionByGatewayOrder("gworder_unknown")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_SweepDropsIdleSessions(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }
	m := newTestManager(t, WithSessionTTL(10*time.Minute), WithClock(clock))
	ctx := context.Background()

	_, err := m.Begin(ctx, "owner-1", seededStore(t))
	require.NoError(t, err)

	// Abandonment: no activity past the TTL, session vanishes with no side
	// effect on the cart or any order.
	now = now.Add(11 * time.Minute)
	m.sweep()

	_, err = m.Session("owner-1")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_Drop(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Begin(ctx, "owner-1", seededStore(t))
	require.NoError(t, err)

	m.Drop("owner-1")
	_, err = m.Session("owner-1")
	assert.ErrorIs(t, err, ErrNoSession)
}
