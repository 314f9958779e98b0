package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"match_chat/internal/service"
)

// ChannelHandler 處理房間查詢與建立的請求
type ChannelHandler struct {
	channelService *service.ChannelService
}

// NewChannelHandler 創建一個新的 ChannelHandler 實例
func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// CreateChannelInput 定義建立房間請求的結構
type CreateChannelInput struct {
	Name string `json:"name" binding:"required"`
}

// CreateChannel 建立一個新房間，擁有者為當前用戶
func (h *ChannelHandler) CreateChannel(c *gin.Context) {
	var input CreateChannelInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error", "success": false, "message": err.Error(),
		})
		return
	}

	userID := c.GetUint("userID")

	channel, err := h.channelService.CreateChannel(input.Name, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "success": false, "message": "建立房間失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "Room created",
		"data":    gin.H{"channel": channel},
	})
}

// GetChannel 依 ID 查詢房間
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "Channel not found",
		})
		return
	}

	channel, err := h.channelService.GetChannel(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "Channel not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "Channel found",
		"data":    channel,
	})
}

// MyChannels 回傳當前用戶所屬的所有房間
func (h *ChannelHandler) MyChannels(c *gin.Context) {
	userID := c.GetUint("userID")

	channels, err := h.channelService.GetChannelsForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error", "success": false, "message": "查詢房間失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "Channel found",
		"data":    gin.H{"channels": channels},
	})
}

// GetChannelUsers 回傳房間成員，以及目前實際在房間內的用戶 ID
func (h *ChannelHandler) GetChannelUsers(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "Channel not found",
		})
		return
	}

	users, inRoomUsers, err := h.channelService.GetChannelUsers(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "Channel not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "Channel found",
		"data":    gin.H{"users": users, "inRoomUsers": inRoomUsers},
	})
}

// GetChannelMessages 回傳房間的歷史訊息
func (h *ChannelHandler) GetChannelMessages(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "Channel not found",
		})
		return
	}

	messages, err := h.channelService.GetChannelMessages(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status": "error", "success": false, "message": "Channel not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"success": true,
		"message": "Channel found",
		"data":    gin.H{"messages": messages},
	})
}

// parseIDParam 解析路徑中的 :id 參數
func parseIDParam(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
