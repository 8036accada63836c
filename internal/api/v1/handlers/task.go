package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"taskflow-backend/internal/models"
	"taskflow-backend/internal/repository"
	"taskflow-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// taskWithListQuery mengambil task beserta ringkasan list induknya.
const taskWithListQuery = `
SELECT t.*, l.title AS list_title, l.color AS list_color
FROM tasks t
JOIN lists l ON t.list_id = l.id
`

// TaskHandler melayani CRUD task. Ownership di-scope lewat list induk
// saat create dan lewat tasks.user_id pada semua query lainnya.
type TaskHandler struct {
	Store *repository.Store
	Cache *redis.Client
}

func taskCacheKey(taskID int) string {
	return fmt.Sprintf("task:%d", taskID)
}

// cacheSet menyimpan baris task ke Redis selama 1 jam. Best effort:
// kegagalan cache tidak menggagalkan request.
func (h *TaskHandler) cacheSet(c *fiber.Ctx, task models.TaskWithList) {
	if h.Cache == nil {
		return
	}
	if data, err := json.Marshal(task); err == nil {
		h.Cache.SetEX(c.Context(), taskCacheKey(task.ID), data, time.Hour)
	}
}

func (h *TaskHandler) cacheDel(c *fiber.Ctx, taskID int) {
	if h.Cache == nil {
		return
	}
	h.Cache.Del(c.Context(), taskCacheKey(taskID))
}

// ByList mengembalikan semua task dalam satu list. List harus milik
// caller, kalau tidak dijawab 404 seperti list yang tidak ada.
func (h *TaskHandler) ByList(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("listId")
	if err != nil {
		return badRequest(c, "Invalid list ID")
	}
	uid := userID(c)

	var list models.List
	err = h.Store.Get(&list,
		"SELECT * FROM lists WHERE id = $1 AND user_id = $2", listID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "List not found")
		}
		return serverError(c, "Error fetching list", err)
	}

	tasks := []models.Task{}
	err = h.Store.Select(&tasks,
		"SELECT * FROM tasks WHERE list_id = $1 AND user_id = $2 ORDER BY created_at DESC", listID, uid)
	if err != nil {
		return serverError(c, "Error fetching tasks", err)
	}

	out := make([]models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Response())
	}
	return c.JSON(out)
}

func (h *TaskHandler) Index(c *fiber.Ctx) error {
	tasks := []models.TaskWithList{}
	err := h.Store.Select(&tasks,
		taskWithListQuery+"WHERE t.user_id = $1 ORDER BY t.created_at DESC", userID(c))
	if err != nil {
		return serverError(c, "Error fetching tasks", err)
	}

	out := make([]models.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Response())
	}
	return c.JSON(out)
}

func (h *TaskHandler) Show(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}
	uid := userID(c)

	// Coba cache dulu. Miss atau payload rusak jatuh ke database.
	if h.Cache != nil {
		if cached, err := h.Cache.Get(c.Context(), taskCacheKey(taskID)).Result(); err == nil {
			var task models.TaskWithList
			if err := json.Unmarshal([]byte(cached), &task); err == nil {
				if task.UserID != uid {
					// Milik orang lain: jawabannya sama dengan tidak ada
					return notFound(c, "Task not found")
				}
				return c.JSON(task.Response())
			}
		}
	}

	var task models.TaskWithList
	err = h.Store.Get(&task, taskWithListQuery+"WHERE t.id = $1 AND t.user_id = $2", taskID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "Task not found")
		}
		return serverError(c, "Error fetching task", err)
	}

	h.cacheSet(c, task)
	return c.JSON(task.Response())
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	// struct TaskRequest menerima inputan dari user
	type TaskRequest struct {
		Title       string                `json:"title" validate:"required,max=200"`
		Description *string               `json:"description" validate:"omitempty,max=1000"`
		ListID      int                   `json:"listId" validate:"required"`
		Priority    *string               `json:"priority" validate:"omitempty,oneof=low medium high"`
		DueDate     models.OptionalString `json:"dueDate"`
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create task", zap.Error(err))
		return badRequest(c, "Bad request")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return validationError(c, translateValidation(err))
	}

	// Validasi dueDate sebelum menyentuh store sama sekali
	var due *time.Time
	if req.DueDate.Present && req.DueDate.Value != "" {
		d, err := parseDueDate(req.DueDate.Value)
		if err != nil {
			return validationError(c, []FieldError{fieldError(err.Error(), "dueDate")})
		}
		due = &d
	}

	uid := userID(c)

	// List target harus milik caller; tanpa ini task bisa nyasar
	// ke list orang lain
	var list models.List
	err := h.Store.Get(&list,
		"SELECT * FROM lists WHERE id = $1 AND user_id = $2", req.ListID, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "List not found")
		}
		return serverError(c, "Error fetching list", err)
	}

	priority := "medium"
	if req.Priority != nil {
		priority = *req.Priority
	}

	id, err := h.Store.ExecuteReturningID(
		"INSERT INTO tasks (title, description, list_id, user_id, priority, due_date) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
		req.Title, nullIfEmpty(req.Description), req.ListID, uid, priority, due)
	if err != nil {
		return serverError(c, "Error creating task", err)
	}

	var task models.TaskWithList
	if err := h.Store.Get(&task, taskWithListQuery+"WHERE t.id = $1", id); err != nil {
		return serverError(c, "Error fetching created task", err)
	}

	logger.AuditLogger.Info("Task created", zap.Int("task_id", task.ID), zap.Int("list_id", task.ListID))
	return c.Status(fiber.StatusCreated).JSON(task.Response())
}

// Update menulis ulang hanya field yang dikirim; field yang absen
// mempertahankan nilai tersimpan. dueDate null atau "" mengosongkan tanggal.
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	type UpdateTaskRequest struct {
		Title       *string               `json:"title" validate:"omitempty,max=200"`
		Description *string               `json:"description" validate:"omitempty,max=1000"`
		Priority    *string               `json:"priority" validate:"omitempty,oneof=low medium high"`
		Completed   *bool                 `json:"completed"`
		DueDate     models.OptionalString `json:"dueDate"`
	}

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update task", zap.Error(err))
		return badRequest(c, "Bad request")
	}
	if err := validate.Struct(req); err != nil {
		return validationError(c, translateValidation(err))
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return validationError(c, []FieldError{fieldError("Title cannot be empty", "title")})
		}
		req.Title = &trimmed
	}

	var due *time.Time
	if req.DueDate.Present && req.DueDate.Value != "" {
		d, err := parseDueDate(req.DueDate.Value)
		if err != nil {
			return validationError(c, []FieldError{fieldError(err.Error(), "dueDate")})
		}
		due = &d
	}

	// Susun klausa SET hanya dari field yang hadir di request
	setClauses := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if req.Title != nil {
		setClauses = append(setClauses, "title = "+arg(*req.Title))
	}
	if req.Description != nil {
		setClauses = append(setClauses, "description = "+arg(*req.Description))
	}
	if req.Priority != nil {
		setClauses = append(setClauses, "priority = "+arg(*req.Priority))
	}
	if req.Completed != nil {
		setClauses = append(setClauses, "completed = "+arg(*req.Completed))
	}
	if req.DueDate.Present {
		setClauses = append(setClauses, "due_date = "+arg(due))
	}
	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")

	uid := userID(c)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE id = %s AND user_id = %s",
		strings.Join(setClauses, ", "), arg(taskID), arg(uid))

	rows, err := h.Store.Execute(query, args...)
	if err != nil {
		return serverError(c, "Error updating task", err)
	}
	if rows == 0 {
		return notFound(c, "Task not found")
	}

	var task models.TaskWithList
	if err := h.Store.Get(&task, taskWithListQuery+"WHERE t.id = $1", taskID); err != nil {
		return serverError(c, "Error fetching updated task", err)
	}

	h.cacheDel(c, taskID)
	h.cacheSet(c, task)

	logger.AuditLogger.Info("Task updated", zap.Int("task_id", taskID))
	return c.JSON(task.Response())
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	taskID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid task ID")
	}

	rows, err := h.Store.Execute(
		"DELETE FROM tasks WHERE id = $1 AND user_id = $2", taskID, userID(c))
	if err != nil {
		return serverError(c, "Error deleting task", err)
	}
	if rows == 0 {
		return notFound(c, "Task not found")
	}

	h.cacheDel(c, taskID)

	logger.AuditLogger.Info("Task deleted", zap.Int("task_id", taskID))
	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}
