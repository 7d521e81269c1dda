package models

import "time"

// Student представляет запись студента.
type Student struct {
	UID          string    `json:"uid"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Gender       string    `json:"gender"`
	Age          int       `json:"age"`
	ProfileImage string    `json:"profileimage"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StudentUpdate содержит частичное обновление записи студента.
// nil-поля не изменяются.
type StudentUpdate struct {
	Firstname    *string
	Lastname     *string
	Phone        *string
	Gender       *string
	Age          *int
	ProfileImage *string
}
