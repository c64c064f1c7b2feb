package upstream

import (
	"encoding/json"
	"strings"

	"storefront-client/internal/domain"
)

// The service reports validation failures in several shapes depending on
// which handler rejected the request:
//
//	{"errors": [{"field": "...", "message": "..."}]}
//	{"errors": [{"path": "...", "msg": "..."}]}
//	{"details": "..."} or {"details": [...]}
//	{"message": "..."}
type wireValidation struct {
	Errors  []wireFieldError `json:"errors"`
	Details json.RawMessage  `json:"details"`
	Message string           `json:"message"`
}

type wireFieldError struct {
	Field   string `json:"field"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

func (w wireFieldError) toField() domain.FieldError {
	field := w.Field
	if field == "" {
		field = w.Path
	}
	message := w.Message
	if message == "" {
		message = w.Msg
	}
	return domain.FieldError{Field: field, Message: message}
}

// parseValidationBody turns a 422 body into a ValidationError, salvaging
// whatever field detail the shape carries.
func parseValidationBody(raw []byte) error {
	var wire wireValidation
	if err := json.Unmarshal(raw, &wire); err != nil {
		return &domain.ValidationError{Fields: []domain.FieldError{{Message: "validation failed"}}}
	}

	var fields []domain.FieldError
	for _, fe := range wire.Errors {
		if f := fe.toField(); f.Message != "" || f.Field != "" {
			fields = append(fields, f)
		}
	}

	if len(fields) == 0 && len(wire.Details) > 0 {
		var detail string
		var detailList []wireFieldError
		switch {
		case json.Unmarshal(wire.Details, &detail) == nil && strings.TrimSpace(detail) != "":
			fields = append(fields, domain.FieldError{Message: detail})
		case json.Unmarshal(wire.Details, &detailList) == nil:
			for _, fe := range detailList {
				if f := fe.toField(); f.Message != "" || f.Field != "" {
					fields = append(fields, f)
				}
			}
		}
	}

	if len(fields) == 0 {
		message := wire.Message
		if strings.TrimSpace(message) == "" {
			message = "validation failed"
		}
		fields = append(fields, domain.FieldError{Message: message})
	}

	return &domain.ValidationError{Fields: fields}
}
