package models

import "time"

// Bentuk response API. Nama kolom database tidak boleh bocor keluar:
// due_date dipetakan di sini menjadi dueDate, satu-satunya tempat
// pemetaan itu dilakukan.

type ListSummary struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

type TaskResponse struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Completed   bool         `json:"completed"`
	Priority    string       `json:"priority"`
	DueDate     *string      `json:"dueDate"`
	ListID      int          `json:"list_id"`
	UserID      int          `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	List        *ListSummary `json:"list,omitempty"`
}

// DateLayout adalah format kalender yang dipakai API untuk dueDate.
const DateLayout = "2006-01-02"

func (t Task) Response() TaskResponse {
	var due *string
	if t.DueDate != nil {
		s := t.DueDate.Format(DateLayout)
		due = &s
	}
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    t.Priority,
		DueDate:     due,
		ListID:      t.ListID,
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Response menyertakan ringkasan list induk pada task hasil JOIN.
func (t TaskWithList) Response() TaskResponse {
	resp := t.Task.Response()
	resp.List = &ListSummary{
		ID:    t.ListID,
		Title: t.ListTitle,
		Color: t.ListColor,
	}
	return resp
}
