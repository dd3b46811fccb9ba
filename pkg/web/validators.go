package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// ParamValidator is a function type that validates a parameter.
type ParamValidator func(valueToTest int64) bool

func newComparisonValidator(valueInClosure int64, compareFn func(argValue, closedValue int64) bool) ParamValidator {
	return func(argValue int64) bool {
		return compareFn(argValue, valueInClosure)
	}
}

// gte returns a ParamValidator that checks if the argument is greater than or equal to the value captured in the closure.
func gte(valToCompareAgainst int64) ParamValidator {
	return newComparisonValidator(valToCompareAgainst, func(argValue, closedValue int64) bool {
		return argValue >= closedValue
	})
}

// ParsePathID reads the {id} path value as a positive int64. Writes 400 and returns false when invalid.
func ParsePathID(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	raw := r.PathValue("id")
	id, ok := parseInt64(raw, gte(1))
	if !ok {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid ID: %s", raw))
		return 0, false
	}
	return id, true
}

// ParseIDList reads a list of positive int64 ids from the query parameter key.
// Both ?ids=1,2 and ?ids=1&ids=2 are accepted; duplicates are kept in request order.
// Writes 400 and returns false when the parameter is missing or any element is invalid.
func ParseIDList(w http.ResponseWriter, r *http.Request, logger *slog.Logger, key string) ([]int64, bool) {
	values := r.URL.Query()[key]
	ids := make([]int64, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, ok := parseInt64(part, gte(1))
			if !ok {
				RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("Invalid %s value: %s", key, part))
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		RespondError(w, logger, http.StatusBadRequest, fmt.Sprintf("%s url parameter is required", key))
		return nil, false
	}
	return ids, true
}

func parseInt64(value string, pValidator ParamValidator) (int64, bool) {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil || !pValidator(parsed) {
		return 0, false
	}
	return parsed, true
}
