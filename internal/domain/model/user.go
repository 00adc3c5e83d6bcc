package model

import "time"

// 登録後は変更しない（削除APIもない）
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	// ハッシュ化はしない（平文のまま保存）
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
