package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetTableByNumber -> resolve nomor meja dari QR code ke record meja aktif
func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("table_number"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("nomor meja tidak valid"))
		return
	}

	var table models.Table
	if err := tc.DB.Where("table_number = ? AND is_active = ?", number, true).
		First(&table).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("meja tidak aktif atau tidak terdaftar"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Detail meja", table)
}
