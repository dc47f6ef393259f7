package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaramelBytes/trafficdash/internal/table"
)

// Response is the JSON envelope of every API route.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// success encodes before writing so an unencodable payload becomes a 500, not an empty 200.
func success(c *gin.Context, data any) {
	b, err := json.Marshal(Response{Code: 0, Message: "success", Data: data})
	if err != nil {
		_ = c.Error(err)
		failure(c, http.StatusInternalServerError, fmt.Sprintf("encode response: %v", err))
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func failure(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{Code: code, Message: message})
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var le *table.LoadError
	var se *table.SchemaError
	switch {
	case errors.As(err, &le):
		return http.StatusServiceUnavailable
	case errors.As(err, &se):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
