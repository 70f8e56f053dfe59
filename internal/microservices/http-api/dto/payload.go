package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Payload is a decoded JSON object whose values are parsed per field, so that
// absent, null and wrongly typed values can be told apart.
type Payload map[string]json.RawMessage

// ParsePayload decodes a request body. An empty body is an empty object.
func ParsePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Payload{}, nil
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{cause: err}
	}
	if _, ok := raw.(map[string]any); !ok {
		errs := NewValidationError()
		errs.AddNonField(fmt.Sprintf(MsgNotDict, jsonTypeName(raw)))
		return nil, errs
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &ParseError{cause: err}
	}
	return p, nil
}

// Has reports whether the key is present, null included.
func (p Payload) Has(field string) bool {
	_, ok := p[field]
	return ok
}

type stringRule struct {
	required   bool
	allowBlank bool
	maxLength  int
	format     string // validator tag checked on non-blank values
}

// readString applies the rule to one field. It returns nil when the field is
// absent or failed; failures are recorded on errs.
func (p Payload) readString(field string, rule stringRule, partial bool, errs *ValidationError) *string {
	raw, ok := p[field]
	if !ok {
		if rule.required && !partial {
			errs.Add(field, MsgRequired, CodeRequired)
		}
		return nil
	}

	s, err := decodeString(raw)
	if err != nil {
		if isNull(raw) {
			errs.Add(field, MsgNull, CodeNull)
		} else {
			errs.Add(field, MsgNotString, CodeInvalid)
		}
		return nil
	}

	s = strings.TrimSpace(s)
	if s == "" {
		if !rule.allowBlank {
			errs.Add(field, MsgBlank, CodeBlank)
			return nil
		}
		return &s
	}

	if rule.maxLength > 0 && utf8.RuneCountInString(s) > rule.maxLength {
		errs.Add(field, fmt.Sprintf(MsgMaxLength, rule.maxLength), CodeMaxLength)
	}
	switch rule.format {
	case "email":
		if validate.Var(s, "email") != nil {
			errs.Add(field, MsgInvalidEmail, CodeInvalid)
		}
	case "http_url":
		if !validURL(s) {
			errs.Add(field, MsgInvalidURL, CodeInvalid)
		}
	}
	if errs.Has(field) {
		return nil
	}
	return &s
}

var urlSchemes = []string{"http", "https", "ftp", "ftps"}

func validURL(s string) bool {
	if validate.Var(s, "url") != nil {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return false
	}
	return slices.Contains(urlSchemes, strings.ToLower(u.Scheme))
}

// readPK reads a nullable primary key reference. set is false when the field
// is absent; id is nil for an explicit null.
func (p Payload) readPK(field string, errs *ValidationError) (id *int64, set bool) {
	raw, ok := p[field]
	if !ok {
		return nil, false
	}
	if isNull(raw) {
		return nil, true
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		errs.Add(field, fmt.Sprintf(MsgIncorrectType, "str"), CodeIncorrectType)
		return nil, true
	}

	var text string
	switch t := v.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = strings.TrimSpace(t)
	default:
		errs.Add(field, fmt.Sprintf(MsgIncorrectType, jsonTypeName(v)), CodeIncorrectType)
		return nil, true
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		received := "str"
		if _, isNum := v.(json.Number); isNum {
			received = "float"
		}
		errs.Add(field, fmt.Sprintf(MsgIncorrectType, received), CodeIncorrectType)
		return nil, true
	}
	return &n, true
}

func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	// numbers are accepted and kept verbatim
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", fmt.Errorf("not a string: %s", raw)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case string:
		return "str"
	case float64, json.Number:
		return "float"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}
