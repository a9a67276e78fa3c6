package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/utils"
	"github.com/IzzulGod/dynamenu-ai/ws"
)

// KitchenController melayani console dapur/staff (di belakang JWT).
type KitchenController struct {
	Svc *services.OrderService
}

func NewKitchenController(svc *services.OrderService) *KitchenController {
	return &KitchenController{Svc: svc}
}

// ListActiveOrders -> antrian dapur: pending/confirmed/preparing/ready
func (kc *KitchenController) ListActiveOrders(c *gin.Context) {
	orders, err := kc.Svc.ActiveOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Antrian pesanan", orders)
}

// UpdateStatus -> majukan status satu langkah di jalur dapur
func (kc *KitchenController) UpdateStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := kc.Svc.UpdateStatus(c.Param("order_id"), body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status pesanan diperbarui", order)
}

// CancelOrder -> pembatalan oleh staff, dengan alasan opsional yang
// ditambahkan ke notes order
func (kc *KitchenController) CancelOrder(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := kc.Svc.KitchenCancelOrder(c.Param("order_id"), body.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ws.BroadcastStaffNotification(fmt.Sprintf("Pesanan %s dibatalkan dapur", order.ID))
	utils.RespondJSON(c, http.StatusOK, "Pesanan dibatalkan", order)
}

// ConfirmCashPayment -> staff meng-attest pembayaran tunai sudah diterima
func (kc *KitchenController) ConfirmCashPayment(c *gin.Context) {
	order, err := kc.Svc.ConfirmPayment(c.Param("order_id"),
		models.PaymentMethodCash, models.PaymentStatusPaid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ws.BroadcastPaymentUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Pembayaran tunai dikonfirmasi", order)
}
