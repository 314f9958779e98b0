package models

// Channel 表示一個聊天房間
//
// Members 依加入順序排列且不重複；Messages 是只增不減的訊息 ID 序列。
// 兩個陣列欄位都只透過 repository 的原子 array_append 操作修改，
// 應用層不做讀取後回寫。
type Channel struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	OwnerID  uint   `gorm:"not null" json:"owner"`
	Members  UintArray `gorm:"type:integer[]" json:"users"`
	Messages UintArray `gorm:"type:integer[]" json:"messages"`
}

// HasMember 回報用戶是否已是持久化成員
func (c *Channel) HasMember(userID uint) bool {
	for _, id := range c.Members {
		if id == userID {
			return true
		}
	}
	return false
}
