package services

import (
	"sync"
	"time"

	"github.com/IzzulGod/dynamenu-ai/cart"
	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
	"github.com/IzzulGod/dynamenu-ai/ws"
)

// State tampilan dialog pembayaran.
type FlowState string

const (
	FlowSelect      FlowState = "select"
	FlowQrisWaiting FlowState = "qris_waiting"
	FlowCashWaiting FlowState = "cash_waiting"
	FlowConfirmed   FlowState = "confirmed"
)

// DefaultQrisTimeout adalah lama countdown QRIS di sisi customer. Murni
// advisory: record pembayaran di database selalu menang atas timer.
const DefaultQrisTimeout = 60 * time.Second

// PaymentFlow adalah koreografi pembayaran di atas OrderService:
// select -> {qris_waiting | cash_waiting} -> confirmed. Re-entrant: membuka
// ulang dialog menurunkan state dari order yang tersimpan, bukan mulai dari
// select. Efek samping sukses (kosongkan keranjang, broadcast) dijalankan
// tepat satu kali per order.
type PaymentFlow struct {
	orders      *OrderService
	carts       *cart.Store
	QrisTimeout time.Duration

	mu        sync.Mutex
	timers    map[string]*time.Timer
	announced map[string]bool
}

func NewPaymentFlow(orders *OrderService, carts *cart.Store) *PaymentFlow {
	f := &PaymentFlow{
		orders:      orders,
		carts:       carts,
		QrisTimeout: DefaultQrisTimeout,
		timers:      make(map[string]*time.Timer),
		announced:   make(map[string]bool),
	}
	orders.OnChange(f.handleOrderChange)
	return f
}

// Open menurunkan state dialog dari order yang tersimpan. Dialog yang dibuka
// ulang untuk order yang sudah paid langsung mendarat di confirmed.
func (f *PaymentFlow) Open(orderID string) (FlowState, models.Order, error) {
	order, err := f.orders.GetOrder(orderID)
	if err != nil {
		return FlowSelect, models.Order{}, err
	}
	return f.deriveState(order), order, nil
}

// SelectMethod memilih (atau mengganti) metode pembayaran. Memilih ulang
// QRIS selama masih pending me-reset jam tunggunya.
func (f *PaymentFlow) SelectMethod(orderID, method string) (FlowState, models.Order, error) {
	order, err := f.orders.SetPaymentMethod(orderID, method)
	if err != nil {
		return FlowSelect, models.Order{}, err
	}

	f.mu.Lock()
	f.stopTimerLocked(orderID)
	if method == models.PaymentMethodQris {
		f.timers[orderID] = time.AfterFunc(f.QrisTimeout, func() { f.expireQris(orderID) })
	}
	f.mu.Unlock()

	ws.BroadcastPaymentUpdate(order)
	return f.deriveState(order), order, nil
}

func (f *PaymentFlow) deriveState(order models.Order) FlowState {
	if order.PaymentStatus == models.PaymentStatusPaid {
		return FlowConfirmed
	}
	switch order.PaymentMethod {
	case models.PaymentMethodQris:
		return FlowQrisWaiting
	case models.PaymentMethodCash:
		return FlowCashWaiting
	}
	return FlowSelect
}

// expireQris berjalan saat countdown habis. Status tersimpan adalah satu-
// satunya sumber kebenaran: kalau pembayaran ternyata sudah tercatat paid,
// timer kalah dan tidak terjadi apa-apa.
func (f *PaymentFlow) expireQris(orderID string) {
	f.mu.Lock()
	delete(f.timers, orderID)
	f.mu.Unlock()

	order, err := f.orders.GetOrder(orderID)
	if err != nil {
		utils.ErrorLogger.Printf("cek order saat QRIS expired: %v", err)
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return
	}
	// Hanya view yang kembali ke select; method/status tersimpan dibiarkan.
	ws.BroadcastQrisExpired(orderID)
}

// handleOrderChange mengamati setiap mutasi order. Transisi ke paid memicu
// efek sukses satu kali: keranjang sesi dikosongkan dan sukses disiarkan.
// Status terminal membuang jejak order dari kedua map supaya tidak menumpuk
// seumur proses; pengumuman paid selalu terjadi sebelum order jadi terminal,
// jadi entri announced-nya sudah tidak dibutuhkan.
func (f *PaymentFlow) handleOrderChange(order models.Order) {
	if order.IsTerminal() {
		f.mu.Lock()
		f.stopTimerLocked(order.ID)
		delete(f.announced, order.ID)
		f.mu.Unlock()
		return
	}
	if order.PaymentStatus != models.PaymentStatusPaid {
		return
	}

	f.mu.Lock()
	f.stopTimerLocked(order.ID)
	already := f.announced[order.ID]
	f.announced[order.ID] = true
	f.mu.Unlock()

	if already {
		return
	}
	f.carts.Clear(order.SessionID)
	ws.BroadcastPaymentSuccess(order)
}

func (f *PaymentFlow) stopTimerLocked(orderID string) {
	if t, ok := f.timers[orderID]; ok {
		t.Stop()
		delete(f.timers, orderID)
	}
}
