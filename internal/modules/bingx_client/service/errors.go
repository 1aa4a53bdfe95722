package service

import (
	"errors"
	"fmt"
	"net/url"
)

var (
	// ErrUpstream: транспорт, таймаут, не-2xx или отказ биржи (code != 0).
	ErrUpstream = errors.New("bingx upstream error")
	// ErrMalformedResponse: биржа ответила успехом, но тело не разобрать.
	ErrMalformedResponse = errors.New("bingx malformed response")
)

// APIError: ошибка запроса к бирже, Kind равен ErrUpstream или ErrMalformedResponse.
// Ключи и подпись сюда не попадают.
type APIError struct {
	Kind     error
	Endpoint string
	Status   int
	Code     int
	Msg      string
	Body     string
	Err      error

	notSent bool
}

func (e *APIError) Error() string {
	s := fmt.Sprintf("%v: %s", e.Kind, e.Endpoint)
	if e.Status != 0 {
		s += fmt.Sprintf(" http=%d", e.Status)
	}
	if e.Code != 0 {
		s += fmt.Sprintf(" code=%d msg=%s", e.Code, e.Msg)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	if e.Body != "" {
		s += " RAW=" + e.Body
	}
	return s
}

func (e *APIError) Unwrap() []error {
	errs := []error{e.Kind}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// RawBody: сырой ответ биржи, если он был.
func RawBody(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Body
	}
	return ""
}

// MayHaveExecuted: после такой ошибки ордер мог исполниться на бирже.
// Точно не исполнился только отказ биржи (code != 0), 4xx и ошибка до отправки.
func MayHaveExecuted(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if errors.Is(apiErr.Kind, ErrMalformedResponse) {
		return true
	}
	if apiErr.Code != 0 || apiErr.Status/100 == 4 {
		return false
	}
	return !apiErr.notSent
}

func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s: %w", uerr.Op, uerr.Err)
	}
	return err
}
