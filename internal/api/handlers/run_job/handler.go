package run_job

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
)

type Handler struct {
	runner JobRunner
	logger Logger
}

func NewHandler(runner JobRunner, logger Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger,
	}
}

// Handle POST /internal/jobs/{job}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["job"]

	result, err := h.runner.Run(r.Context(), name)
	if err != nil {
		handlers.RespondServiceError(w, h.logger, "POST /internal/jobs/{job}", err)
		return
	}

	h.logger.Info("POST /internal/jobs/{job} - Job finished: job=%s, processed=%d, skipped=%t",
		result.Job, result.Processed, result.Skipped)
	handlers.RespondJSON(w, http.StatusOK, result)
}
