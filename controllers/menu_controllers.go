package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetCategories -> daftar kategori, terurut sort_order
func (mc *MenuController) GetCategories(c *gin.Context) {
	var categories []models.MenuCategory
	if err := mc.DB.Order("sort_order ASC").Find(&categories).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daftar kategori", categories)
}

// GetMenuItems -> item yang tersedia, opsional difilter kategori
func (mc *MenuController) GetMenuItems(c *gin.Context) {
	q := mc.DB.Where("is_available = ?", true)
	if categoryID := c.Query("category_id"); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var items []models.MenuItem
	if err := q.Order("name ASC").Find(&items).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daftar menu", items)
}
