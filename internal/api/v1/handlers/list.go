package handlers

import (
	"errors"
	"strings"

	"taskflow-backend/internal/models"
	"taskflow-backend/internal/repository"
	"taskflow-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const defaultListColor = "#007bff"

// ListHandler melayani CRUD list. Semua query di-scope ke user_id caller,
// list milik user lain tidak pernah kelihatan.
type ListHandler struct {
	Store *repository.Store
	Cache *redis.Client
}

// struct request dipakai oleh create dan update (full replace).
type listRequest struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Color       *string `json:"color"`
}

func (r *listRequest) color() string {
	if r.Color == nil || *r.Color == "" {
		return defaultListColor
	}
	return *r.Color
}

func (h *ListHandler) Index(c *fiber.Ctx) error {
	lists := []models.List{}
	err := h.Store.Select(&lists,
		"SELECT * FROM lists WHERE user_id = $1 ORDER BY created_at DESC", userID(c))
	if err != nil {
		return serverError(c, "Error fetching lists", err)
	}
	return c.JSON(lists)
}

func (h *ListHandler) Show(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid list ID")
	}

	var list models.List
	err = h.Store.Get(&list,
		"SELECT * FROM lists WHERE id = $1 AND user_id = $2", listID, userID(c))
	if err != nil {
		// Tidak ada atau bukan milik caller: jawabannya sama
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "List not found")
		}
		return serverError(c, "Error fetching list", err)
	}
	return c.JSON(list)
}

func (h *ListHandler) Create(c *fiber.Ctx) error {
	var req listRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in create list", zap.Error(err))
		return badRequest(c, "Bad request")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return validationError(c, translateValidation(err))
	}

	id, err := h.Store.ExecuteReturningID(
		"INSERT INTO lists (title, description, color, user_id) VALUES ($1, $2, $3, $4) RETURNING id",
		req.Title, nullIfEmpty(req.Description), req.color(), userID(c))
	if err != nil {
		return serverError(c, "Error creating list", err)
	}

	// Kembalikan baris yang baru tersimpan, bukan echo dari request
	var list models.List
	if err := h.Store.Get(&list, "SELECT * FROM lists WHERE id = $1", id); err != nil {
		return serverError(c, "Error fetching created list", err)
	}

	logger.AuditLogger.Info("List created", zap.Int("list_id", list.ID), zap.Int("user_id", list.UserID))
	return c.Status(fiber.StatusCreated).JSON(list)
}

// Update mengganti title/description/color sekaligus (full replace,
// bukan merge dengan nilai tersimpan).
func (h *ListHandler) Update(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("id")
	if err != nil {
		return badRequest(c, "Invalid list ID")
	}

	var req listRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in update list", zap.Error(err))
		return badRequest(c, "Bad request")
	}
	req.Title = strings.TrimSpace(req.Title)
	if err := validate.Struct(req); err != nil {
		return validationError(c, translateValidation(err))
	}

	rows, err := h.Store.Execute(
		"UPDATE lists SET title = $1, description = $2, color = $3, updated_at = CURRENT_TIMESTAMP WHERE id = $4 AND user_id = $5",
		req.Title, nullIfEmpty(req.Description), req.color(), listID, userID(c))
	if err != nil {
		return serverError(c, "Error updating list", err)
	}
	if rows == 0 {
		return notFound(c, "List not found")
	}

	// Task yang di-cache membawa ringkasan list induknya; buang semua
	// entri anak supaya title/color baru langsung terlihat
	if h.Cache != nil {
		taskIDs := []int{}
		if err := h.Store.Select(&taskIDs, "SELECT id FROM tasks WHERE list_id = $1", listID); err == nil {
			for _, tid := range taskIDs {
				h.Cache.Del(c.Context(), taskCacheKey(tid))
			}
		}
	}

	var list models.List
	if err := h.Store.Get(&list, "SELECT * FROM lists WHERE id = $1", listID); err != nil {
		return serverError(c, "Error fetching updated list", err)
	}

	logger.AuditLogger.Info("List updated", zap.Int("list_id", list.ID))
	return c.JSON(list)
}

// Delete menghapus list beserta seluruh task anaknya dalam satu transaksi,
// supaya tidak pernah ada keadaan setengah jadi yang terlihat caller.
func (h *ListHandler) Delete(c *fiber.Ctx) error {
	listID, err := c.ParamsInt("id")
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

	// Kumpulkan id task dulu untuk invalidasi cache setelah commit
	taskIDs := []int{}
	if err := h.Store.Select(&taskIDs, "SELECT id FROM tasks WHERE list_id = $1", listID); err != nil {
		return serverError(c, "Error fetching list tasks", err)
	}

	err = h.Store.Transact(func(tx *sqlx.Tx) error {
		if _, err := tx.Exec("DELETE FROM tasks WHERE list_id = $1", listID); err != nil {
			return err
		}
		res, err := tx.Exec("DELETE FROM lists WHERE id = $1 AND user_id = $2", listID, uid)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			// List hilang di antara pemeriksaan dan penghapusan;
			// rollback agar task tidak terhapus sendirian
			return errors.New("list row vanished during delete")
		}
		return nil
	})
	if err != nil {
		return serverError(c, "Error deleting list", err)
	}

	if h.Cache != nil {
		for _, tid := range taskIDs {
			h.Cache.Del(c.Context(), taskCacheKey(tid))
		}
	}

	logger.AuditLogger.Info("List deleted", zap.Int("list_id", listID), zap.Int("tasks_removed", len(taskIDs)))
	return c.JSON(fiber.Map{"message": "List and associated tasks deleted successfully"})
}
