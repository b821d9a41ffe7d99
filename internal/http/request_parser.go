// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.

package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"financie/internal/core"
)

const maxBodyBytes = 1 << 16

// ErrIncompleteForm is returned when a required field of the record form is missing.
var ErrIncompleteForm = errors.New("incomplete form")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body once and stores it for parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// RequireMethod returns an error response when the request method is not allowed.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

func RequireGET(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodGet)
}

func RequireDeleteOrPOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodDelete, http.MethodPost)
}

// ParseRecordDraft builds a draft from the record form. Every field is
// required except the date, which defaults to today. Field problems are
// reported as ErrIncompleteForm or a core validation error.
func ParseRecordDraft(p *RequestBodyParser) (core.Draft, error) {
	var (
		kindStr   = p.Get("kind")
		desc      = p.Get("description")
		amountStr = p.Get("amount")
		category  = p.Get("category")
		dateStr   = p.Get("date")
	)
	if kindStr == "" || desc == "" || amountStr == "" || category == "" {
		return core.Draft{}, ErrIncompleteForm
	}

	kind, err := core.ParseKind(kindStr)
	if err != nil {
		return core.Draft{}, err
	}
	amount, err := core.ParseAmount(amountStr)
	if err != nil {
		return core.Draft{}, err
	}
	date := core.Today()
	if dateStr != "" {
		if date, err = core.ParseDate(dateStr); err != nil {
			return core.Draft{}, err
		}
	}

	return core.Draft{
		Description: desc,
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Date:        date,
	}, nil
}
