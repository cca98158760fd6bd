package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"mindflow/internal/modules/generation/domain"

	"github.com/go-playground/validator/v10"
)

// stripFences removes a leading ``` fence (with an optional language tag)
// and a trailing ``` fence around a model response.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = strings.TrimPrefix(s, fence)
		if nl := strings.IndexAny(s, "\n "); nl >= 0 && !strings.ContainsAny(s[:nl], "{[") {
			s = s[nl:]
		} else if strings.HasPrefix(s, "json") {
			s = strings.TrimPrefix(s, "json")
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

func decodeError(op domain.Operation, err error) error {
	return &domain.DecodeError{Operation: op, Err: err}
}

func checkItem(validate *validator.Validate, item any) error {
	switch v := item.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("empty entry")
		}
		return nil
	default:
		if err := validate.Struct(item); err != nil {
			return err
		}
	}
	if checker, ok := item.(domain.Checker); ok {
		return checker.Check()
	}
	return nil
}

func decodeObject[T any](validate *validator.Validate, op domain.Operation, raw string) (T, error) {
	var out T
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return out, decodeError(op, err)
	}
	if err := checkItem(validate, out); err != nil {
		return out, decodeError(op, err)
	}
	return out, nil
}

func decodeList[T any](validate *validator.Validate, op domain.Operation, raw string) ([]T, error) {
	var out []T
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		return nil, decodeError(op, err)
	}
	if len(out) == 0 {
		return nil, decodeError(op, fmt.Errorf("empty list"))
	}
	for i, item := range out {
		if err := checkItem(validate, item); err != nil {
			return nil, decodeError(op, fmt.Errorf("item %d: %w", i, err))
		}
	}
	return out, nil
}

var errEmptyDiagram = fmt.Errorf("empty diagram")
