package cancel_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	usecase "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

type fakeUseCase struct {
	got *usecase.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *usecase.Request) (*domain.Appointment, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Appointment{ID: req.AppointmentID, Status: domain.StatusCancelled}, nil
}

func serve(h *Handler, path, body string, actor domain.Actor) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/appointments/{id}/cancel", h.Handle).Methods(http.MethodPatch)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(http.MethodPatch, path, nil)
	} else {
		req = httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	}
	req = req.WithContext(middleware.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	patient := domain.Actor{UserID: 7, Role: domain.RolePatient}

	t.Run("with reason", func(t *testing.T) {
		uc := &fakeUseCase{}
		rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/appointments/11/cancel", `{"reason":"заболел"}`, patient)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(11), uc.got.AppointmentID)
		assert.Equal(t, "заболел", uc.got.Reason)
		assert.Equal(t, patient, uc.got.Actor)
	})

	t.Run("without body", func(t *testing.T) {
		uc := &fakeUseCase{}
		rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/appointments/11/cancel", "", patient)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "", uc.got.Reason)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := serve(NewHandler(&fakeUseCase{}, logger.Nop()), "/api/v1/appointments/abc/cancel", "", patient)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("policy rejects", func(t *testing.T) {
		uc := &fakeUseCase{err: domain.ErrTooLateToChange}
		rec := serve(NewHandler(uc, logger.Nop()), "/api/v1/appointments/11/cancel", "", patient)
		assert.Equal(t, domain.ErrTooLateToChange.Status(), rec.Code)
	})
}
