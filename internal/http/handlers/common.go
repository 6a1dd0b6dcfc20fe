package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nahuelmendez6/int-com-back/internal/common"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath parses the numeric id at the given zero-based segment of the
// request path, so idFromPath(r, 1) on /petitions/42/close yields 42.
func idFromPath(r *http.Request, segment int) (int64, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if segment >= len(parts) {
		return 0, common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	id, err := strconv.ParseInt(parts[segment], 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewError(common.CodeValidation, "invalid id in path", err)
	}
	return id, nil
}

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "identity not resolved", nil)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
