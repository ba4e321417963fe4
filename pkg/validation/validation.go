// Package validation checks tool inputs with go-playground/validator and
// renders the first failure as a coded message.
package validation

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vinodismyname/mcpeassc/internal/security"
	"github.com/vinodismyname/mcpeassc/pkg/pagination"
)

var (
	v    *validator.Validate
	once sync.Once
)

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		// Messages name fields the way clients send them.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return strings.ToLower(f.Name)
			}
			return name
		})
		// Custom: report file name must have a supported extension
		_ = v.RegisterValidation("report_ext", func(fl validator.FieldLevel) bool {
			s := strings.ToLower(strings.TrimSpace(fl.Field().String()))
			if s == "" {
				return false
			}
			for _, ext := range security.DefaultExtensions {
				if strings.HasSuffix(s, ext) {
					return true
				}
			}
			return false
		})
		// Custom: data type selection
		_ = v.RegisterValidation("datatype", func(fl validator.FieldLevel) bool {
			switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
			case "", "all", "sales", "stocks":
				return true
			}
			return false
		})
		// Custom: standard base64 payload
		_ = v.RegisterValidation("b64", func(fl validator.FieldLevel) bool {
			_, err := base64.StdEncoding.DecodeString(strings.TrimSpace(fl.Field().String()))
			return err == nil
		})
		// Custom: cursor must be decodable via pagination.DecodeCursor
		_ = v.RegisterValidation("cursor", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" {
				return true // empty is allowed; use omitempty with this tag
			}
			_, err := pagination.DecodeCursor(s)
			return err == nil
		})
	})
	return v
}

// ValidateStruct validates a struct and returns a user-friendly error string
// suitable for MCP tool errors. Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := fe.Field()
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "required_without":
				return fmt.Sprintf("VALIDATION: %s is required (or supply cursor)", field)
			case "report_ext":
				return "VALIDATION: file must be a report (.csv, .xls, .xlsx, .xlsm)"
			case "datatype":
				return "VALIDATION: data_type must be one of all, sales, stocks"
			case "b64":
				return fmt.Sprintf("VALIDATION: %s must be standard base64", field)
			case "uuid4", "uuid":
				return fmt.Sprintf("VALIDATION: %s must be a session id returned by process_files", field)
			case "cursor":
				return "CURSOR_INVALID: failed to decode cursor; restart pagination"
			case "min", "max", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			// Fallback generic
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}
