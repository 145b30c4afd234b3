package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/chrono-planner-api/internal/utils"
)

var errInvalidID = errors.New("invalid id")

// flexID accepts an id sent either as a JSON number or a numeric string.
type flexID uint64

func (id *flexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", errInvalidID, data)
	}
	*id = flexID(v)
	return nil
}

// parseID parses a positive id from a path or query value
func parseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// idFromAny converts a decoded JSON value to an id
func idFromAny(v any) (uint64, error) {
	switch n := v.(type) {
	case float64:
		if n <= 0 || n != float64(uint64(n)) {
			return 0, errInvalidID
		}
		return uint64(n), nil
	case string:
		return parseID(n)
	default:
		return 0, errInvalidID
	}
}

// pageParam returns pagination only when the client asked for it
func pageParam(c *gin.Context) *utils.PaginationParams {
	params, ok := utils.GetPaginationParams(c)
	if !ok {
		return nil
	}
	return &params
}
