package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"match_chat/internal/models"
	"match_chat/internal/service"
	"match_chat/internal/utils"
)

// AuthHandler 處理與認證相關的請求
type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler 創建一個新的 AuthHandler 實例
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RegisterInput 定義註冊請求的結構
type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginInput 定義登入請求的結構
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register 處理用戶註冊
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	// 解析並驗證請求體
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error", "success": false, "message": err.Error(),
		})
		return
	}

	// 檢查信箱是否已被註冊
	if _, err := h.userService.GetUserByEmail(input.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error", "success": false, "message": "User already exists",
		})
		return
	}

	// 對密碼進行加密
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "success": false, "message": "創建使用者失敗",
		})
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
		Status:   models.StatusOffline,
	}
	if err := h.userService.CreateUser(&user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "success": false, "message": "創建使用者失敗",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "success": false, "message": "獲取token失敗",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"success": true,
		"message": "User registered successfully",
		"data":    gin.H{"user": user, "token": token},
	})
}

// Login 處理用戶登入
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error", "success": false, "message": err.Error(),
		})
		return
	}

	// 檢查用戶是否存在
	user, err := h.userService.GetUserByEmail(input.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error", "success": false, "message": "User not found",
		})
		return
	}

	// 驗證密碼
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error", "success": false, "message": "Invalid password",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "success": false, "message": "獲取token失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "User logged in successfully",
		"data":    gin.H{"user": user, "token": token},
	})
}

// Me 回傳當前登入的用戶
func (h *AuthHandler) Me(c *gin.Context) {
	userID := c.GetUint("userID")

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error", "success": false, "message": "Unauthorized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "User found",
		"data":    user,
	})
}

// GetUser 依 ID 查詢用戶
func (h *AuthHandler) GetUser(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "User not found",
		})
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "User found",
		"data":    user,
	})
}
