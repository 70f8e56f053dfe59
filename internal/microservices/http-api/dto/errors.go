package dto

import (
	"sort"
	"strings"
)

// Error codes rendered next to "detail" in error bodies.
const (
	CodeNotAuthenticated = "not_authenticated"
	CodeTokenNotValid    = "token_not_valid"
	CodeBadAuthHeader    = "bad_authorization_header"
	CodeUserNotFound     = "user_not_found"
	CodeNoActiveAccount  = "no_active_account"
	CodePermissionDenied = "permission_denied"
	CodeNotFound         = "not_found"
	CodeThrottled        = "throttled"
	CodeParseError       = "parse_error"
	CodeError            = "error"
)

// Field error codes.
const (
	CodeRequired      = "required"
	CodeNull          = "null"
	CodeBlank         = "blank"
	CodeInvalid       = "invalid"
	CodeMaxLength     = "max_length"
	CodeDoesNotExist  = "does_not_exist"
	CodeIncorrectType = "incorrect_type"
)

const (
	MsgRequired      = "This field is required."
	MsgNull          = "This field may not be null."
	MsgBlank         = "This field may not be blank."
	MsgNotString     = "Not a valid string."
	MsgInvalidEmail  = "Enter a valid email address."
	MsgInvalidURL    = "Enter a valid URL."
	MsgMaxLength     = "Ensure this field has no more than %d characters."
	MsgDoesNotExist  = "Invalid pk \"%s\" - object does not exist."
	MsgIncorrectType = "Incorrect type. Expected pk value, received %s."
	MsgNotDict       = "Invalid data. Expected a dictionary, but got %s."

	MsgPasswordMismatch = "Password and confirm do not match."
	MsgUsernameExists   = "Username already exists."
	MsgEmailExists      = "Email already exists."

	MsgNotAuthenticated  = "Authentication credentials were not provided."
	MsgTokenNotValid     = "Given token not valid for any token type"
	MsgUserNotFound      = "User not found"
	MsgNoActiveAccount   = "No active account found with the given credentials"
	MsgPermissionDenied  = "You do not have permission to perform this action."
	MsgNotFound          = "Not found."
	MsgInvalidPage       = "Invalid page."
	MsgThrottled         = "Request was throttled."
	MsgServerError       = "A server error occurred."
	MsgInvalidAuthHeader = "Authorization header must contain two space-delimited values"
)

// NonFieldErrors is the key general validation failures render under.
const NonFieldErrors = "non_field_errors"

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// FieldError is one validation failure with its machine code.
type FieldError struct {
	Message string
	Code    string
}

// ValidationError collects field and non-field failures for one payload.
type ValidationError struct {
	fields   map[string][]FieldError
	nonField []FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{fields: make(map[string][]FieldError)}
}

// Add records a failure against a field.
func (v *ValidationError) Add(field, message, code string) {
	v.fields[field] = append(v.fields[field], FieldError{Message: message, Code: code})
}

// AddNonField records a general failure.
func (v *ValidationError) AddNonField(message string) {
	v.nonField = append(v.nonField, FieldError{Message: message, Code: CodeInvalid})
}

// Has reports whether the field already failed.
func (v *ValidationError) Has(field string) bool {
	return len(v.fields[field]) > 0
}

func (v *ValidationError) Empty() bool {
	return len(v.fields) == 0 && len(v.nonField) == 0
}

// Field returns the failures recorded for a field, or for NonFieldErrors.
func (v *ValidationError) Field(field string) []FieldError {
	if field == NonFieldErrors {
		return v.nonField
	}
	return v.fields[field]
}

// Err returns v as an error, or nil when nothing failed.
func (v *ValidationError) Err() error {
	if v == nil || v.Empty() {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	keys := make([]string, 0, len(v.fields))
	for k := range v.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k+": "+joinMessages(v.fields[k]))
	}
	if len(v.nonField) > 0 {
		parts = append(parts, NonFieldErrors+": "+joinMessages(v.nonField))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Body renders the {"field": ["msg", ...]} shape.
func (v *ValidationError) Body() map[string][]string {
	body := make(map[string][]string, len(v.fields)+1)
	for k, errs := range v.fields {
		body[k] = messages(errs)
	}
	if len(v.nonField) > 0 {
		body[NonFieldErrors] = messages(v.nonField)
	}
	return body
}

func messages(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Message
	}
	return out
}

func joinMessages(errs []FieldError) string {
	return strings.Join(messages(errs), " ")
}

// ParseError is returned when the request body is not valid JSON.
type ParseError struct {
	cause error
}

func (e *ParseError) Error() string {
	return "JSON parse error - " + e.cause.Error()
}

func (e *ParseError) Unwrap() error {
	return e.cause
}
