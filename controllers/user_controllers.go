package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/IzzulGod/dynamenu-ai/models"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

// UserController mengurus akun staff untuk console dapur.
type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register -> daftarkan staff baru
func (uc *UserController) Register(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	role := body.Role
	if role != models.RoleAdmin {
		role = models.RoleStaff
	}

	user := models.User{Name: body.Name, Email: body.Email, Role: role}
	if err := user.SetPassword(body.Password); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("email sudah terdaftar"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Staff terdaftar", user)
}

// Login -> tukar kredensial staff dengan JWT
func (uc *UserController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("email atau password salah"))
		return
	}
	if !user.CheckPassword(body.Password) {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("email atau password salah"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login berhasil", gin.H{
		"token": token,
		"user":  user,
	})
}
