// Package models содержит доменные модели системы: пользователей,
// студентов и агрегированную статистику для админ-панели.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Хэш пароля никогда не сериализуется в ответы API.
type User struct {
	UID          string    `json:"uid"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        *string   `json:"phone,omitempty"`
	Age          *int      `json:"age,omitempty"`
	Gender       *string   `json:"gender,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Skills       []string  `json:"skills"`
	ProfileImage string    `json:"profileimage"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserUpdate содержит частичное обновление профиля пользователя.
// nil-поля не изменяются.
type UserUpdate struct {
	Username     *string
	Phone        *string
	Age          *int
	Gender       *string
	Address      *string
	Skills       []string
	ProfileImage *string
}
