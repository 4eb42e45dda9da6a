package models

import "time"

// User 用户表：既是后台登录账号，也是内置的 "user" 作者种类
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"` // 登录名
	DisplayName  string    `gorm:"size:128" json:"display_name"`                 // 展示名
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	IsAdmin      bool      `gorm:"default:false" json:"is_admin"` // 是否可登录后台
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Attribute 按名称读取展示属性，供作者展示名解析使用
func (u *User) Attribute(name string) (string, bool) {
	if u == nil {
		return "", false
	}
	switch name {
	case "username":
		return u.Username, true
	case "display_name":
		return u.DisplayName, true
	case "email":
		return u.Email, true
	default:
		return "", false
	}
}
