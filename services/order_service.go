package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/models"
)

// Tabel transisi status: satu langkah maju di jalur bahagia. cancelled dan
// delivered terminal; pembatalan punya aturan sendiri per aktor.
var nextStatus = map[string]string{
	models.OrderStatusPending:   models.OrderStatusConfirmed,
	models.OrderStatusConfirmed: models.OrderStatusPreparing,
	models.OrderStatusPreparing: models.OrderStatusReady,
	models.OrderStatusReady:     models.OrderStatusDelivered,
}

// OrderService adalah state machine siklus hidup order dan pembayarannya.
// Setiap mutasi memeriksa ulang state di dalam transaksi (idempotent by
// precondition); lintas aktor berlaku last-write-wins yang dijaga precondisi.
type OrderService struct {
	db *gorm.DB

	mu        sync.Mutex
	observers []func(models.Order)
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OnChange mendaftarkan observer perubahan order (primitive onOrdersChanged).
// Observer dipanggil setelah commit, dengan state order terbaru.
func (s *OrderService) OnChange(fn func(models.Order)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *OrderService) notify(order models.Order) {
	s.mu.Lock()
	obs := make([]func(models.Order), len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()
	for _, fn := range obs {
		fn(order)
	}
}

type OrderLineInput struct {
	MenuItemID string
	Quantity   int
	UnitPrice  int64
	Notes      string
}

// CreateOrder membuat order beserta barisnya dalam satu transaksi; tidak ada
// order tanpa baris yang tersisa kalau insert baris gagal. TotalAmount harus
// sama dengan jumlah subtotal baris dan dibekukan setelahnya.
func (s *OrderService) CreateOrder(tableID *string, sessionID string, lines []OrderLineInput, totalAmount int64, notes string) (models.Order, error) {
	if sessionID == "" || len(lines) == 0 {
		return models.Order{}, fmt.Errorf("%w: order kosong", ErrValidation)
	}
	var sum int64
	for _, l := range lines {
		if l.Quantity < 1 || l.UnitPrice < 0 {
			return models.Order{}, fmt.Errorf("%w: baris order tidak valid", ErrValidation)
		}
		sum += l.UnitPrice * int64(l.Quantity)
	}
	if sum != totalAmount {
		return models.Order{}, fmt.Errorf("%w: total tidak cocok dengan isi order", ErrValidation)
	}

	order := models.Order{
		TableID:       tableID,
		SessionID:     sessionID,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodNone,
		PaymentStatus: models.PaymentStatusPending,
		TotalAmount:   totalAmount,
		Notes:         notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, l := range lines {
			id := l.MenuItemID
			item := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: &id,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
				Notes:      l.Notes,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}
		return nil
	})
	if err != nil {
		return models.Order{}, err
	}

	s.notify(order)
	return order, nil
}

// CancelOrder adalah pembatalan oleh customer: hanya saat masih pending dan
// belum dibayar.
func (s *OrderService) CancelOrder(orderID string) (models.Order, error) {
	return s.mutate(orderID, func(order *models.Order) error {
		if order.Status != models.OrderStatusPending || order.PaymentStatus == models.PaymentStatusPaid {
			return ErrPreconditionFailed
		}
		order.Status = models.OrderStatusCancelled
		return nil
	})
}

// KitchenCancelOrder adalah pembatalan oleh staff: boleh dari status apa pun
// kecuali yang sudah terminal. Alasan ditambahkan ke notes dengan penanda
// [Dibatalkan: ...] supaya sisi customer bisa membedakannya dari pembatalan
// sendiri; notes lama tidak pernah ditimpa.
func (s *OrderService) KitchenCancelOrder(orderID, reason string) (models.Order, error) {
	return s.mutate(orderID, func(order *models.Order) error {
		if order.IsTerminal() {
			return ErrPreconditionFailed
		}
		order.Status = models.OrderStatusCancelled
		if reason != "" {
			marker := fmt.Sprintf("[Dibatalkan: %s]", reason)
			if order.Notes != "" {
				order.Notes = order.Notes + "\n" + marker
			} else {
				order.Notes = marker
			}
		}
		return nil
	})
}

// UpdateStatus memajukan status satu langkah sesuai tabel transisi.
// pending -> confirmed juga mensyaratkan pembayaran sudah paid.
func (s *OrderService) UpdateStatus(orderID, newStatus string) (models.Order, error) {
	return s.mutate(orderID, func(order *models.Order) error {
		next, ok := nextStatus[order.Status]
		if !ok || next != newStatus {
			return ErrPreconditionFailed
		}
		if order.Status == models.OrderStatusPending && order.PaymentStatus != models.PaymentStatusPaid {
			return ErrPreconditionFailed
		}
		order.Status = newStatus
		return nil
	})
}

// SetPaymentMethod memilih (atau mengganti) metode selama pembayaran masih
// pending. Pergantian metode me-reset jam tunggu QRIS di sisi flow.
func (s *OrderService) SetPaymentMethod(orderID, method string) (models.Order, error) {
	if method != models.PaymentMethodCash && method != models.PaymentMethodQris {
		return models.Order{}, fmt.Errorf("%w: metode pembayaran tidak dikenal", ErrValidation)
	}
	return s.mutate(orderID, func(order *models.Order) error {
		if order.IsTerminal() || order.PaymentStatus == models.PaymentStatusPaid {
			return ErrPreconditionFailed
		}
		order.PaymentMethod = method
		order.PaymentStatus = models.PaymentStatusPending
		return nil
	})
}

// ConfirmPayment mencatat hasil pembayaran. status=paid mengkonfirmasi
// ordernya: status order naik minimal ke confirmed, tidak pernah turun.
func (s *OrderService) ConfirmPayment(orderID, method, status string) (models.Order, error) {
	if method != models.PaymentMethodCash && method != models.PaymentMethodQris {
		return models.Order{}, fmt.Errorf("%w: metode pembayaran tidak dikenal", ErrValidation)
	}
	if status != models.PaymentStatusPaid && status != models.PaymentStatusFailed {
		return models.Order{}, fmt.Errorf("%w: status pembayaran tidak dikenal", ErrValidation)
	}
	return s.mutate(orderID, func(order *models.Order) error {
		if order.Status == models.OrderStatusCancelled {
			return ErrPreconditionFailed
		}
		order.PaymentMethod = method
		order.PaymentStatus = status
		if status == models.PaymentStatusPaid && order.Status == models.OrderStatusPending {
			order.Status = models.OrderStatusConfirmed
		}
		return nil
	})
}

// DeleteOrder menghapus permanen order yang sudah dibatalkan, beserta
// barisnya, atas permintaan customer pemilik sesi.
func (s *OrderService) DeleteOrder(orderID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return wrapNotFound(err)
		}
		if order.Status != models.OrderStatusCancelled {
			return ErrPreconditionFailed
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
}

// GetOrder memuat satu order beserta barisnya.
func (s *OrderService) GetOrder(orderID string) (models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items.MenuItem").First(&order, "id = ?", orderID).Error; err != nil {
		return models.Order{}, wrapNotFound(err)
	}
	return order, nil
}

// SessionOrders: riwayat order milik satu sesi, terbaru dulu.
func (s *OrderService) SessionOrders(sessionID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.MenuItem").Preload("Table").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ActiveOrders: antrian console dapur, tertua dulu.
func (s *OrderService) ActiveOrders() ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.MenuItem").Preload("Table").
		Where("status IN ?", models.ActiveStatuses()).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// RecentOrderSummaries meringkas order terakhir satu sesi untuk prompt AI.
func (s *OrderService) RecentOrderSummaries(sessionID string, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items.MenuItem").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// mutate menjalankan satu mutasi ber-precondisi dalam transaksi dan
// menyiarkan hasilnya ke observer.
func (s *OrderService) mutate(orderID string, apply func(*models.Order) error) (models.Order, error) {
	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			return wrapNotFound(err)
		}
		if err := apply(&order); err != nil {
			return err
		}
		order.UpdatedAt = time.Now()
		return tx.Save(&order).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	s.notify(order)
	return order, nil
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: order", ErrNotFound)
	}
	return err
}
