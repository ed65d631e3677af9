package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/pkg/apperrors"
)

const (
	codeBadRequest    = "BAD_REQUEST"
	codeUnauthorized  = "UNAUTHORIZED"
	codeForbidden     = "FORBIDDEN"
	codeNotFound      = "NOT_FOUND"
	codeInternalError = "INTERNAL"

	msgInternalError = "внутренняя ошибка сервера"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrEmptyBody тело запроса отсутствует
var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON декодирует тело запроса, неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return ErrEmptyBody
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// RespondJSON отправляет JSON-ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondNoContent отправляет 204 без тела
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError отправляет ошибку с кодом и сообщением
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, codeBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, codeUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, codeForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, codeNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, codeInternalError, msgInternalError)
}

// RespondAppError отображает ошибку сервиса в HTTP-ответ.
// Для внутренних ошибок причина клиенту не передаётся.
func RespondAppError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.As(err)
	if !ok || appErr.Kind == apperrors.KindInternal {
		RespondInternalError(w)
		return
	}
	RespondError(w, appErr.Status(), appErr.Code, appErr.Message)
}

// IsServerError ошибка, которую нужно логировать как Error, а не Warn
func IsServerError(err error) bool {
	return apperrors.KindOf(err) == apperrors.KindInternal
}

// ErrorLogger логгер для RespondServiceError
type ErrorLogger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RespondServiceError логирует отказ сервиса (Warn) или сбой (Error) и отправляет ответ
func RespondServiceError(w http.ResponseWriter, log ErrorLogger, op string, err error) {
	if IsServerError(err) {
		log.Error("%s - Failed: %v", op, err)
	} else {
		log.Warn("%s - Rejected: %v", op, err)
	}
	RespondAppError(w, err)
}
