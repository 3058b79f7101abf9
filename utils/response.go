package utils

import "github.com/gin-gonic/gin"

// Envelope is the uniform structure for API responses:
// {code, status, message|error, data?}.
type Envelope struct {
	Code    int         `json:"code"`
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(200, Envelope{Code: 200, Status: "success", Message: message, Data: data})
}

// Created writes a 201 envelope.
func Created(ctx *gin.Context, message string, data interface{}) {
	ctx.JSON(201, Envelope{Code: 201, Status: "success", Message: message, Data: data})
}

// Fail writes a failure envelope with the given HTTP status.
func Fail(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, Envelope{Code: status, Status: "failed", Error: message})
}
