package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/utils"
	"github.com/IzzulGod/dynamenu-ai/ws"
)

// PaymentController melayani dialog pembayaran sisi customer di atas
// PaymentFlow.
type PaymentController struct {
	Flow *services.PaymentFlow
	Svc  *services.OrderService
}

func NewPaymentController(flow *services.PaymentFlow, svc *services.OrderService) *PaymentController {
	return &PaymentController{Flow: flow, Svc: svc}
}

type flowView struct {
	State          services.FlowState `json:"state"`
	Order          models.Order       `json:"order"`
	QrisTimeoutSec int                `json:"qris_timeout_sec"`
}

// OpenFlow -> state dialog pembayaran, diturunkan dari order tersimpan.
// Membuka ulang dialog untuk order yang sudah paid langsung confirmed.
func (pc *PaymentController) OpenFlow(c *gin.Context) {
	order, ok := pc.owned(c)
	if !ok {
		return
	}

	state, order, err := pc.Flow.Open(order.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status pembayaran", flowView{
		State:          state,
		Order:          order,
		QrisTimeoutSec: int(pc.Flow.QrisTimeout.Seconds()),
	})
}

// SelectMethod -> pilih atau ganti metode selama pembayaran masih pending
func (pc *PaymentController) SelectMethod(c *gin.Context) {
	order, ok := pc.owned(c)
	if !ok {
		return
	}

	var body struct {
		Method string `json:"method" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	state, order, err := pc.Flow.SelectMethod(order.ID, body.Method)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Metode pembayaran dipilih", flowView{
		State:          state,
		Order:          order,
		QrisTimeoutSec: int(pc.Flow.QrisTimeout.Seconds()),
	})
}

// ConfirmQris -> simulasi callback QRIS: catat pembayaran sebagai paid.
// Pembayaran tunai TIDAK lewat sini; tunai dikonfirmasi staff dari console.
func (pc *PaymentController) ConfirmQris(c *gin.Context) {
	order, ok := pc.owned(c)
	if !ok {
		return
	}

	confirmed, err := pc.Svc.ConfirmPayment(order.ID, models.PaymentMethodQris, models.PaymentStatusPaid)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	ws.BroadcastPaymentUpdate(confirmed)
	utils.RespondJSON(c, http.StatusOK, "Pembayaran QRIS berhasil", confirmed)
}

func (pc *PaymentController) owned(c *gin.Context) (models.Order, bool) {
	sessionID := c.GetString("session_id")
	order, err := pc.Svc.GetOrder(c.Param("order_id"))
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
