package server

import (
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/johann/setlab/internal/errors"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestIDMiddleware propagates the caller's request ID or assigns a new one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func accessLogMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", routeLabel(c)),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", GetRealIP(c)),
			zap.String("request_id", requestID(c)),
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("HTTP request", fields...)
		case status >= 400:
			logger.Info("HTTP request", fields...)
		default:
			logger.Debug("HTTP request", fields...)
		}
	}
}

func recoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		logger.Error("Panic while handling request",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", requestID(c)),
			zap.String("panic", fmt.Sprint(recovered)),
			zap.Stack("stack"))

		err := apperrors.InternalError("internal server error", nil)
		c.AbortWithStatusJSON(err.HTTPStatus(), err.ToResponse())
	})
}

// errorMiddleware renders the last error attached to the context as JSON
func errorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := apperrors.AsStructuredError(c.Errors.Last().Err)
		logError(logger, c, err)

		if !c.Writer.Written() {
			c.JSON(err.HTTPStatus(), err.ToResponse())
		}
	}
}

func logError(logger *zap.Logger, c *gin.Context, err *apperrors.Error) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("message", err.Message),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", err.HTTPStatus()),
		zap.String("request_id", requestID(c)),
	}
	for k, v := range err.Context {
		fields = append(fields, zap.Any(k, v))
	}

	switch err.Type {
	case apperrors.TypeValidation, apperrors.TypeNotFound:
		if err.Cause != nil {
			fields = append(fields, zap.NamedError("cause", err.Cause))
		}
		logger.Debug("Client error", fields...)
	case apperrors.TypeRateLimited:
		logger.Debug("Rate limited", fields...)
	default:
		if err.Cause != nil {
			fields = append(fields, zap.NamedError("cause", err.Cause))
		}
		logger.Error("Internal error", fields...)
	}
}
