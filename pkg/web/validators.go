package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// ParseOptionalBool reads an optional boolean query parameter.
// An absent parameter yields nil; a malformed one writes a 400 response and returns false.
func ParseOptionalBool(r *http.Request, w http.ResponseWriter, logger *slog.Logger, key string) (*bool, bool) {
	if !r.URL.Query().Has(key) {
		return nil, true
	}
	value := r.URL.Query().Get(key)
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s value: %s", key, value))
		return nil, false
	}
	return &parsed, true
}
