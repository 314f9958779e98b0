package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// UintArray 對應 PostgreSQL 的 integer[] 欄位，
// 以 {1,2,3} 的文字格式與資料庫往返
type UintArray []uint

// Value 實作 driver.Valuer
func (a UintArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Scan 實作 sql.Scanner
func (a *UintArray) Scan(src interface{}) error {
	var text string
	switch v := src.(type) {
	case nil:
		*a = UintArray{}
		return nil
	case string:
		text = v
	case []byte:
		text = string(v)
	default:
		return fmt.Errorf("無法將 %T 掃描為 UintArray", src)
	}

	text = strings.Trim(text, "{}")
	if text == "" {
		*a = UintArray{}
		return nil
	}

	parts := strings.Split(text, ",")
	result := make(UintArray, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
		if err != nil {
			return fmt.Errorf("無法解析陣列元素 %q: %w", part, err)
		}
		result = append(result, uint(v))
	}
	*a = result
	return nil
}
