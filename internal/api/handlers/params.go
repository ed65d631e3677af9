package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// PathID извлекает положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// QueryID необязательный положительный int64 из строки запроса
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &id, nil
}

// QueryTime необязательный момент времени в формате RFC 3339
func QueryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected RFC 3339", name, raw)
	}
	return &t, nil
}

// QueryDate необязательная календарная дата YYYY-MM-DD
func QueryDate(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := ParseDate(raw, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: expected %s", name, raw, domain.DateFormat)
	}
	return &d, nil
}

// ParseDate разбирает дату YYYY-MM-DD в часовом поясе loc
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, raw, loc)
}

// QueryUint необязательное неотрицательное число (limit, offset)
func QueryUint(r *http.Request, name string) (uint64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}
