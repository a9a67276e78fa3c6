package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/cart"
	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

type CartController struct {
	DB    *gorm.DB
	Carts *cart.Store
}

func NewCartController(db *gorm.DB, carts *cart.Store) *CartController {
	return &CartController{DB: db, Carts: carts}
}

// GetCart -> isi keranjang sesi ini
func (cc *CartController) GetCart(c *gin.Context) {
	sessionID := c.GetString("session_id")
	utils.RespondJSON(c, http.StatusOK, "Isi keranjang", cc.Carts.Snapshot(sessionID))
}

// AddItem -> tambah item katalog ke keranjang
func (cc *CartController) AddItem(c *gin.Context) {
	sessionID := c.GetString("session_id")

	var body struct {
		MenuItemID string `json:"menu_item_id" binding:"required"`
		Quantity   int    `json:"quantity"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}
	if body.Quantity < 1 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("jumlah harus minimal 1"))
		return
	}

	var item models.MenuItem
	if err := cc.DB.Where("id = ? AND is_available = ?", body.MenuItemID, true).
		First(&item).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu tidak ditemukan atau sedang habis"))
		return
	}

	var view cart.Snapshot
	cc.Carts.WithCart(sessionID, func(ct *cart.Cart) {
		ct.AddItem(item, body.Quantity, body.Notes)
		view = ct.Snapshot()
	})
	utils.RespondJSON(c, http.StatusOK, "Item ditambahkan", view)
}

// UpdateItem -> ubah kuantitas/catatan; kuantitas <= 0 menghapus baris
func (cc *CartController) UpdateItem(c *gin.Context) {
	sessionID := c.GetString("session_id")
	itemID := c.Param("menu_item_id")

	var body struct {
		Quantity *int    `json:"quantity"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var view cart.Snapshot
	cc.Carts.WithCart(sessionID, func(ct *cart.Cart) {
		if body.Quantity != nil {
			ct.UpdateQuantity(itemID, *body.Quantity)
		}
		if body.Notes != nil {
			ct.UpdateNotes(itemID, *body.Notes)
		}
		view = ct.Snapshot()
	})
	utils.RespondJSON(c, http.StatusOK, "Keranjang diperbarui", view)
}

// RemoveItem -> hapus satu baris keranjang
func (cc *CartController) RemoveItem(c *gin.Context) {
	sessionID := c.GetString("session_id")
	itemID := c.Param("menu_item_id")

	var view cart.Snapshot
	cc.Carts.WithCart(sessionID, func(ct *cart.Cart) {
		ct.RemoveItem(itemID)
		view = ct.Snapshot()
	})
	utils.RespondJSON(c, http.StatusOK, "Item dihapus", view)
}

// ClearCart -> kosongkan keranjang sesi
func (cc *CartController) ClearCart(c *gin.Context) {
	sessionID := c.GetString("session_id")
	cc.Carts.Clear(sessionID)
	utils.RespondJSON(c, http.StatusOK, "Keranjang dikosongkan", nil)
}
