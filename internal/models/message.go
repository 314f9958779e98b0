package models

// Message 表示一則聊天訊息，建立後不再修改
type Message struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	ChatID  uint   `gorm:"not null;index" json:"chatId"`
	Author  uint   `gorm:"not null" json:"author"`
	Content string `gorm:"not null" json:"content"` // 內容視為不透明文字，允許空字串
}
