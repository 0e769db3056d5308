package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func ParamID(c *gin.Context, name string) (int64, bool) {
	v := c.Param(name)
	if v == "" {
		RespondError(c, name+" es obligatorio", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, name+" inválido", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// Pagination lee skip/limit (default 0/100, limit máximo 100).
func Pagination(c *gin.Context) (skip int, limit int) {
	skip = clampInt(queryInt(c, "skip", 0), 0, 1_000_000)
	limit = clampInt(queryInt(c, "limit", 100), 1, 100)
	return skip, limit
}

func queryInt(c *gin.Context, key string, def int) int {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// queryBool devuelve nil si el parámetro no vino o no es true/false.
func queryBool(c *gin.Context, key string) *bool {
	v := strings.ToLower(strings.TrimSpace(c.Query(key)))
	switch v {
	case "true", "1":
		b := true
		return &b
	case "false", "0":
		b := false
		return &b
	}
	return nil
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
