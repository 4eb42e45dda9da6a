package models

import (
	"strings"

	"github.com/blogit-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultUser 初始化默认管理员/作者账号，已有用户时跳过
func InitDefaultUser(username, password string) (*User, error) {
	var count int64
	if err := DB.Model(&User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		var existing User
		if err := DB.Where("username = ?", firstNonEmpty(username, "admin")).First(&existing).Error; err == nil {
			return &existing, nil
		}
		return nil, nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     username,
		DisplayName:  username,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}

	if password == "admin123" {
		logger.Warnw("default_user_created_with_default_password", "username", username)
		logger.Warnw("default_user_password_change_required", "username", username)
	} else {
		logger.Warnw("default_user_created", "username", username, "password_hidden", true)
	}
	return &user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
