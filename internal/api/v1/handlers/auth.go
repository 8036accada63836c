package handlers

import (
	"errors"
	"time"

	"taskflow-backend/internal/models"
	"taskflow-backend/internal/repository"
	"taskflow-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler melayani register, login, dan pembacaan user aktif.
type AuthHandler struct {
	Store  *repository.Store
	Secret []byte
}

// signToken membuat JWT HS256 dengan klaim user_id, berlaku 24 jam.
func (h *AuthHandler) signToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	return token.SignedString(h.Secret)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	// struct RegisterRequest menerima inputan dari user
	type RegisterRequest struct {
		Username string `json:"username" validate:"required,excludesall=@"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in register", zap.Error(err))
		return badRequest(c, "Bad request")
	}

	// Validasi dengan validator
	if err := validate.Struct(req); err != nil {
		return validationError(c, translateValidation(err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return serverError(c, "Error hashing password", err)
	}

	// Insert data user ke dalam database.
	// Unique violation berarti username/email sudah terpakai.
	id, err := h.Store.ExecuteReturningID(
		"INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id",
		req.Username, req.Email, string(hashedPassword))
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			logger.SecurityLogger.Warn("Duplicate registration", zap.String("username", req.Username))
			return badRequest(c, "User already exists")
		}
		return serverError(c, "Error creating user", err)
	}

	var user models.User
	if err := h.Store.Get(&user,
		"SELECT id, username, email, password, created_at, updated_at FROM users WHERE id = $1", id); err != nil {
		return serverError(c, "Error fetching created user", err)
	}

	tokenString, err := h.signToken(user.ID)
	if err != nil {
		return serverError(c, "Error generating token", err)
	}

	logger.AuditLogger.Info("User registered", zap.Int("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": tokenString,
		"user":  user,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	// struct LoginRequest menerima inputan dari user
	type LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.ErrorLogger.Error("Bad request in login", zap.Error(err))
		return badRequest(c, "Bad request")
	}

	if err := validate.Struct(req); err != nil {
		return validationError(c, translateValidation(err))
	}

	var user models.User
	err := h.Store.Get(&user,
		"SELECT id, username, email, password, created_at, updated_at FROM users WHERE email = $1", req.Email)
	if err != nil {
		// User tidak ada dan password salah dijawab sama persis
		if errors.Is(err, repository.ErrNotFound) {
			logger.SecurityLogger.Warn("Login for unknown email", zap.String("email", req.Email))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		}
		return serverError(c, "Error fetching user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.SecurityLogger.Warn("Invalid password", zap.Int("user_id", user.ID))
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
	}

	tokenString, err := h.signToken(user.ID)
	if err != nil {
		return serverError(c, "Error generating token", err)
	}

	logger.AuditLogger.Info("Login success", zap.Int("user_id", user.ID))
	return c.JSON(fiber.Map{
		"token": tokenString,
		"user":  user,
	})
}

// Me mengembalikan user yang sedang login, dipakai SPA saat memulihkan sesi.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	var user models.User
	err := h.Store.Get(&user,
		"SELECT id, username, email, password, created_at, updated_at FROM users WHERE id = $1", userID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound(c, "User not found")
		}
		return serverError(c, "Error fetching user", err)
	}
	return c.JSON(fiber.Map{"user": user})
}
