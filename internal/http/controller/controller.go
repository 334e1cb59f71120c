package controller

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fiyatly/price-catalog/internal/repository"
	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope shared by all endpoints.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Controller handles general HTTP requests.
type Controller struct {
	db *sql.DB
}

// New creates a new Controller with the given database handle.
func New(db *sql.DB) *Controller {
	return &Controller{
		db: db,
	}
}

// Ping handles the HTTP GET request for the health check endpoint.
func (con *Controller) Ping(c *gin.Context) {
	if con.db != nil {
		if err := con.db.PingContext(c.Request.Context()); err != nil {
			respondError(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, Response{Success: false, Error: msg})
}

// respondServiceError maps store-layer errors to status codes: validation
// failures to 400, missing entities to 404, uniqueness violations to 409 and
// everything else to 500. Unexpected errors are logged, never passed through.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *repository.ValidationError
	if errors.As(err, &validationErr) {
		respondError(c, http.StatusBadRequest, validationErr.Msg)
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}

	var uniqueErr *repository.UniqueConstraintError
	if errors.As(err, &uniqueErr) {
		respondError(c, http.StatusConflict, uniqueErr.Error())
		return
	}

	slog.Error("unexpected service error",
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Any("err", err),
	)
	respondError(c, http.StatusInternalServerError, "internal server error")
}
