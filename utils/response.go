package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, payload interface{}) {
	ctx.JSON(status, payload)
}

// Success returns a 200 response carrying payload as-is.
func Success(ctx *gin.Context, payload interface{}) {
	Respond(ctx, http.StatusOK, payload)
}

// Created returns a 201 response carrying payload as-is.
func Created(ctx *gin.Context, payload interface{}) {
	Respond(ctx, http.StatusCreated, payload)
}

// Error returns a standard error response. code is a five digit application code (status*100+n).
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, ErrorResponse{Code: code, Error: message})
}

// Abort writes the error response and stops the handler chain.
func Abort(ctx *gin.Context, status int, code int, message string) {
	ctx.AbortWithStatusJSON(status, ErrorResponse{Code: code, Error: message})
}
