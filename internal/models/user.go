package models

// UserStatus 定義用戶在配對系統中的即時狀態
type UserStatus string

const (
	StatusOffline UserStatus = "offline" // 離線
	StatusOnline  UserStatus = "online"  // 在線，尚未請求配對
	StatusPending UserStatus = "pending" // 等待配對中
	StatusJoined  UserStatus = "joined"  // 已配對並進入房間
)

// User 表示系統中的用戶
type User struct {
	ID       uint       `gorm:"primarykey" json:"id"`
	Username string     `gorm:"not null" json:"username"`
	Email    string     `gorm:"uniqueIndex;not null" json:"email"` // 電子郵件，必須唯一
	Password string     `gorm:"not null" json:"-"`                 // 密碼雜湊，json 序列化時會被忽略
	Status   UserStatus `gorm:"type:varchar(20);default:'offline';not null" json:"status"`
}
