package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ChatMessage{},
	))
	return db
}

func seedMenu(t *testing.T, db *gorm.DB) (esTeh, nasiGoreng models.MenuItem) {
	t.Helper()
	esTeh = models.MenuItem{Name: "Es Teh", Price: 8000, IsAvailable: true}
	nasiGoreng = models.MenuItem{Name: "Nasi Goreng", Price: 25000, IsAvailable: true}
	require.NoError(t, db.Create(&esTeh).Error)
	require.NoError(t, db.Create(&nasiGoreng).Error)
	return esTeh, nasiGoreng
}

func createTestOrder(t *testing.T, svc *OrderService, db *gorm.DB, sessionID string) models.Order {
	t.Helper()
	esTeh, nasiGoreng := seedMenu(t, db)
	order, err := svc.CreateOrder(nil, sessionID, []OrderLineInput{
		{MenuItemID: esTeh.ID, Quantity: 1, UnitPrice: 8000},
		{MenuItemID: nasiGoreng.ID, Quantity: 2, UnitPrice: 25000},
	}, 58000, "")
	require.NoError(t, err)
	return order
}

func TestCreateOrderRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	order := createTestOrder(t, svc, db, "session_1_abc")

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, models.PaymentMethodNone, order.PaymentMethod)
	assert.Equal(t, int64(58000), order.TotalAmount)
	require.Len(t, order.Items, 2)

	var sum int64
	for _, it := range order.Items {
		sum += it.Subtotal()
	}
	assert.Equal(t, order.TotalAmount, sum)
}

func TestCreateOrderRejectsTotalMismatch(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	esTeh, _ := seedMenu(t, db)

	_, err := svc.CreateOrder(nil, "session_1_abc", []OrderLineInput{
		{MenuItemID: esTeh.ID, Quantity: 1, UnitPrice: 8000},
	}, 9999, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderRejectsEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	_, err := svc.CreateOrder(nil, "session_1_abc", nil, 0, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCancelOrderOnlyWhilePendingUnpaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	cancelled, err := svc.CancelOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	// cancelled terminal
	_, err = svc.CancelOrder(order.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestCancelOrderRejectedOncePaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	_, err := svc.ConfirmPayment(order.ID, models.PaymentMethodCash, models.PaymentStatusPaid)
	require.NoError(t, err)

	_, err = svc.CancelOrder(order.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	got, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, got.Status)
	assert.Equal(t, models.PaymentStatusPaid, got.PaymentStatus)
}

func TestConfirmPaymentPromotesPendingToConfirmed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	paid, err := svc.ConfirmPayment(order.ID, models.PaymentMethodQris, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, paid.Status)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	assert.Equal(t, models.PaymentMethodQris, paid.PaymentMethod)
}

func TestConfirmPaymentNeverDowngradesStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	_, err := svc.ConfirmPayment(order.ID, models.PaymentMethodCash, models.PaymentStatusPaid)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)

	// Konfirmasi ulang tidak menurunkan preparing ke confirmed.
	again, err := svc.ConfirmPayment(order.ID, models.PaymentMethodCash, models.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, again.Status)
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	// pending -> confirmed butuh pembayaran paid
	_, err := svc.UpdateStatus(order.ID, models.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	_, err = svc.ConfirmPayment(order.ID, models.PaymentMethodCash, models.PaymentStatusPaid)
	require.NoError(t, err)

	// lompat dua langkah ditolak
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusReady)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	// jalur bahagia: confirmed -> preparing -> ready -> delivered
	for _, next := range []string{
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusDelivered,
	} {
		got, err := svc.UpdateStatus(order.ID, next)
		require.NoError(t, err)
		assert.Equal(t, next, got.Status)
	}

	// delivered terminal
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestKitchenCancelAppendsReasonMarker(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	cancelled, err := svc.KitchenCancelOrder(order.ID, "salah input")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, "[Dibatalkan: salah input]", cancelled.Notes)
}

func TestKitchenCancelPreservesPriorNotes(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	esTeh, _ := seedMenu(t, db)
	order, err := svc.CreateOrder(nil, "session_1_abc", []OrderLineInput{
		{MenuItemID: esTeh.ID, Quantity: 1, UnitPrice: 8000},
	}, 8000, "tanpa es")
	require.NoError(t, err)

	cancelled, err := svc.KitchenCancelOrder(order.ID, "stok habis")
	require.NoError(t, err)
	assert.Equal(t, "tanpa es\n[Dibatalkan: stok habis]", cancelled.Notes)
}

func TestKitchenCancelAllowedMidPipelineButNotTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	_, err := svc.ConfirmPayment(order.ID, models.PaymentMethodCash, models.PaymentStatusPaid)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(order.ID, models.OrderStatusPreparing)
	require.NoError(t, err)

	// preparing masih boleh dibatalkan dapur
	cancelled, err := svc.KitchenCancelOrder(order.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	// terminal tidak
	_, err = svc.KitchenCancelOrder(order.ID, "")
	assert.ErrorIs(t, err, ErrPreconditionFailed)
}

func TestSetPaymentMethodSwitchableWhilePending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	got, err := svc.SetPaymentMethod(order.ID, models.PaymentMethodCash)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodCash, got.PaymentMethod)
	assert.Equal(t, models.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, got.Status)

	got, err = svc.SetPaymentMethod(order.ID, models.PaymentMethodQris)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodQris, got.PaymentMethod)

	_, err = svc.SetPaymentMethod(order.ID, "pulsa")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteOrderOnlyWhenCancelled(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)
	order := createTestOrder(t, svc, db, "session_1_abc")

	err := svc.DeleteOrder(order.ID)
	assert.ErrorIs(t, err, ErrPreconditionFailed)

	_, err = svc.CancelOrder(order.ID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteOrder(order.ID))

	_, err = svc.GetOrder(order.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var itemCount int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&itemCount)
	assert.Zero(t, itemCount, "baris order harus ikut terhapus")
}

func TestObserversNotifiedOnMutation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewOrderService(db)

	var events []string
	svc.OnChange(func(o models.Order) {
		events = append(events, o.Status+"/"+o.PaymentStatus)
	})

	order := createTestOrder(t, svc, db, "session_1_abc")
	_, err := svc.ConfirmPayment(order.ID, models.PaymentMethodCash, models.PaymentStatusPaid)
	require.NoError(t, err)

	assert.Equal(t, []string{"pending/pending", "confirmed/paid"}, events)
}
