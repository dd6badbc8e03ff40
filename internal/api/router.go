// Package api serves games and stats over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	"github.com/pable/go-ns2-stats/internal/log"
)

type RouterOpts struct {
	HTTPLogEnabled bool
	LogLevel       log.Level
	Mode           string
}

// CreateRouter constructs a gin engine with recovery, problem+json error
// handling and optional request logging.
func CreateRouter(opts RouterOpts) *gin.Engine {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(recoveryHandler())
	engine.Use(errorHandler())

	if opts.HTTPLogEnabled {
		useSloggin(engine, opts.LogLevel)
	}

	return engine
}

func NewServer(listenAddr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func recoveryHandler() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(ctx *gin.Context, err any) {
		slog.Error("Recovery error", slog.String("err", fmt.Sprintf("%v", err)))

		apiErr := NewAPIError(http.StatusInternalServerError, ErrInternal)
		apiErr.Instance = ctx.Request.URL.Path
		abort(ctx, apiErr)
		ctx.Abort()
	})
}

// abort writes apiError as application/problem+json, which ctx.JSON would
// send as plain application/json.
func abort(ctx *gin.Context, apiError APIError) {
	ctx.Header("Content-Type", "application/problem+json")
	ctx.Status(apiError.Status)

	if err := json.NewEncoder(ctx.Writer).Encode(apiError); err != nil {
		ctx.Abort()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		err := ctx.Errors.Last()
		if err == nil {
			return
		}
		ctx.Abort()

		var apiError APIError
		if errors.As(err, &apiError) {
			abort(ctx, apiError)
		} else {
			abort(ctx, NewAPIError(http.StatusInternalServerError, ErrInternal))
		}

		level := slog.LevelWarn
		if ctx.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(ctx, level, "Error in http handler",
			slog.String("method", ctx.Request.Method),
			slog.String("path", ctx.Request.URL.Path),
			slog.String("error", err.Error()))
	}
}

func useSloggin(engine *gin.Engine, level log.Level) {
	engine.Use(sloggin.NewWithConfig(slog.Default(), sloggin.Config{
		DefaultLevel: log.ToSlogLevel(level),
	}))
}
