package wire

import (
	"theater-booking/internal/adaptor"
	"theater-booking/pkg/middleware"
	"theater-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROTECTED USER ROUTES ====================
	r.With(middleware.Auth(config.JWT.Secret, log)).Get("/api/users/current", userHandler.GetCurrentUser)

	// ==================== ADMIN ROUTES ====================
	r.With(adminOnly(config, log)...).Post("/api/admin/users", userHandler.RegisterUser)
}
