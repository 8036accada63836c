package models

import (
	"time"
)

type User struct {
	ID        int       `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type List struct {
	ID          int       `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Color       string    `db:"color" json:"color"`
	UserID      int       `db:"user_id" json:"user_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type Task struct {
	ID          int        `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description"`
	Completed   bool       `db:"completed" json:"completed"`
	Priority    string     `db:"priority" json:"priority"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	ListID      int        `db:"list_id" json:"list_id"`
	UserID      int        `db:"user_id" json:"user_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// TaskWithList adalah baris task hasil JOIN dengan list induknya.
// Tag json dipakai saat baris disimpan ke cache, bukan untuk response API.
type TaskWithList struct {
	Task
	ListTitle string `db:"list_title" json:"list_title"`
	ListColor string `db:"list_color" json:"list_color"`
}
