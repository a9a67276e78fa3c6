package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/cart"
	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/utils"
	"github.com/IzzulGod/dynamenu-ai/ws"
)

// OrderController melayani operasi order sisi customer. Semua operasi
// dipagari kepemilikan sesi; transisi state dijaga oleh OrderService.
type OrderController struct {
	Svc   *services.OrderService
	Carts *cart.Store
}

func NewOrderController(svc *services.OrderService, carts *cart.Store) *OrderController {
	return &OrderController{Svc: svc, Carts: carts}
}

// Checkout -> buat order dari isi keranjang sesi ini. Keranjang baru
// dikosongkan setelah pembayaran terkonfirmasi, bukan di sini.
func (oc *OrderController) Checkout(c *gin.Context) {
	sessionID := c.GetString("session_id")

	var body struct {
		TableID *string `json:"table_id"`
		Notes   string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Baris dan total diambil dari satu potret yang sama supaya order yang
	// dibuat konsisten walau keranjang dimutasi bersamaan dari chat.
	snap := oc.Carts.Snapshot(sessionID)
	if len(snap.Lines) == 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("keranjang masih kosong"))
		return
	}

	inputs := make([]services.OrderLineInput, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		inputs = append(inputs, services.OrderLineInput{
			MenuItemID: l.Item.ID,
			Quantity:   l.Quantity,
			UnitPrice:  l.Item.Price,
			Notes:      l.Notes,
		})
	}

	order, err := oc.Svc.CreateOrder(body.TableID, sessionID, inputs, snap.TotalAmount, body.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ws.BroadcastStaffNotification("Pesanan baru masuk")
	utils.RespondJSON(c, http.StatusCreated, "Pesanan dibuat", order)
}

// ListMyOrders -> riwayat order sesi ini, terbaru dulu
func (oc *OrderController) ListMyOrders(c *gin.Context) {
	sessionID := c.GetString("session_id")
	orders, err := oc.Svc.SessionOrders(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Riwayat pesanan", orders)
}

// CancelOrder -> pembatalan oleh customer; hanya pending dan belum dibayar
func (oc *OrderController) CancelOrder(c *gin.Context) {
	order, ok := oc.ownedOrder(c)
	if !ok {
		return
	}

	cancelled, err := oc.Svc.CancelOrder(order.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pesanan dibatalkan", cancelled)
}

// DeleteOrder -> hapus permanen order yang sudah dibatalkan dari riwayat
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	order, ok := oc.ownedOrder(c)
	if !ok {
		return
	}

	if err := oc.Svc.DeleteOrder(order.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Pesanan dihapus dari riwayat", nil)
}

// ownedOrder memuat order path param dan memastikan miliknya sesi pemanggil.
func (oc *OrderController) ownedOrder(c *gin.Context) (models.Order, bool) {
	sessionID := c.GetString("session_id")
	order, err := oc.Svc.GetOrder(c.Param("order_id"))
	if err != nil {
		respondServiceError(c, err)
		return models.Order{}, false
	}
	if order.SessionID != sessionID {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return models.Order{}, false
	}
	return order, true
}
