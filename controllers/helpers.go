package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quillpost/quill/middleware"
	"github.com/quillpost/quill/utils"
)

const orderNewestFirst = "created_at DESC, id DESC"

func getUserID(ctx *gin.Context) (string, bool) {
	id := ctx.GetString(middleware.ContextUserIDKey)
	return id, id != ""
}

// respondInternal logs err and answers 500 with a message that carries no internal detail.
func respondInternal(ctx *gin.Context, code int, message string, err error) {
	utils.Logger.Error(message,
		zap.Error(err),
		zap.String("requestId", ctx.GetString(middleware.ContextRequestIDKey)),
		zap.String("route", ctx.FullPath()),
	)
	utils.Error(ctx, http.StatusInternalServerError, code, message)
}

// isUniqueViolation recognises unique constraint failures from every supported dialect.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
