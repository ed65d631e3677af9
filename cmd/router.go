package main

import (
	"net/http"

	"github.com/gorilla/mux"

	cancelAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/cancel_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_availability"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_exception"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_availability"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_exception"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/generate_slots"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_availability_windows"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_slot_template"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_availabilities"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_exceptions"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/list_slots"
	manualBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/manual_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/payment_webhook"
	rescheduleAppointmentHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/reschedule_appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/run_job"
	startBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/start_booking"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_appointment_status"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_availability"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_slot_status"
	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_slot_template"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	"github.com/m04kA/SMC-AppointmentService/internal/service/exceptions"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedules"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slots"
	"github.com/m04kA/SMC-AppointmentService/internal/service/slottemplate"
	bookFreeformUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_freeform"
	bookSlotUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/book_slot"
	cancelAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/cancel_appointment"
	confirmPaymentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/confirm_payment"
	manualBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/manual_booking"
	rescheduleAppointmentUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/reschedule_appointment"
	startBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/start_booking"
	updateStatusUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/update_status"
)

type routeDeps struct {
	availability *availability.Service
	templates    *slottemplate.Service
	slots        *slots.Service
	exceptions   *exceptions.Service
	schedules    *schedules.Service
	appointments *appointments.Service

	bookSlot              *bookSlotUC.UseCase
	bookFreeform          *bookFreeformUC.UseCase
	cancelAppointment     *cancelAppointmentUC.UseCase
	rescheduleAppointment *rescheduleAppointmentUC.UseCase
	updateStatus          *updateStatusUC.UseCase
	startBooking          *startBookingUC.UseCase
	manualBooking         *manualBookingUC.UseCase
	confirmPayment        *confirmPaymentUC.UseCase
}

func newRouter(a *app, d routeDeps) http.Handler {
	log := a.log
	location := a.cfg.Clinic.Location()

	// Handlers
	createAppointment := create_appointment.NewHandler(d.bookSlot, d.bookFreeform, log)
	getAppointment := get_appointment.NewHandler(d.appointments, log)
	listAppointments := list_appointments.NewHandler(d.appointments, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(d.cancelAppointment, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(d.rescheduleAppointment, log)
	updateAppointmentStatus := update_appointment_status.NewHandler(d.updateStatus, log)

	createAvailability := create_availability.NewHandler(d.availability, location, log)
	updateAvailability := update_availability.NewHandler(d.availability, location, log)
	deleteAvailability := delete_availability.NewHandler(d.availability, log)
	listAvailabilities := list_availabilities.NewHandler(d.availability, log)
	generateSlots := generate_slots.NewHandler(d.availability, log)

	getSlotTemplate := get_slot_template.NewHandler(d.templates, log)
	updateSlotTemplate := update_slot_template.NewHandler(d.templates, log)
	listSlots := list_slots.NewHandler(d.slots, log)
	updateSlotStatus := update_slot_status.NewHandler(d.slots, log)

	createException := create_exception.NewHandler(d.exceptions, location, log)
	deleteException := delete_exception.NewHandler(d.exceptions, log)
	listExceptions := list_exceptions.NewHandler(d.exceptions, location, log)

	createSchedule := create_schedule.NewHandler(d.schedules, location, log)
	deleteSchedule := delete_schedule.NewHandler(d.schedules, log)
	getAvailabilityWindows := get_availability_windows.NewHandler(d.schedules, location, log)
	startBooking := startBookingHandler.NewHandler(d.startBooking, log)
	manualBooking := manualBookingHandler.NewHandler(d.manualBooking, log)

	paymentWebhook := payment_webhook.NewHandler(d.confirmPayment, log)
	runJob := run_job.NewHandler(a.runner, log)

	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if a.cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(a.metrics))
		log.Info("HTTP metrics middleware enabled")
	}
	a.mountMetrics(r)

	// Вебхук платёжного провайдера, подлинность проверяется подписью
	r.HandleFunc("/webhooks/payments", paymentWebhook.Handle).Methods(http.MethodPost)

	// Запуск периодических задач внешним планировщиком
	internal := r.PathPrefix("/internal").Subrouter()
	internal.Use(middleware.CronSecret(a.cfg.Jobs.CronSecret))
	internal.HandleFunc("/jobs/{job}", runJob.Handle).Methods(http.MethodPost)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	api.HandleFunc("/doctors/{doctorId}/availabilities", listAvailabilities.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/slot-template", getSlotTemplate.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/slots", listSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{doctorId}/availability-windows", getAvailabilityWindows.Handle).Methods(http.MethodGet)
	api.HandleFunc("/schedule-exceptions", listExceptions.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID и X-User-Role)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи на приём ---
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", listAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{id}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{id}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// --- Окна доступности и слоты ---
	protected.HandleFunc("/availabilities", createAvailability.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/availabilities/{id}", updateAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/availabilities/{id}", deleteAvailability.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/availabilities/{id}/generate-slots", generateSlots.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/doctors/{doctorId}/slot-template", updateSlotTemplate.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/slots/{id}/status", updateSlotStatus.Handle).Methods(http.MethodPatch)

	// --- Исключения из расписания ---
	protected.HandleFunc("/schedule-exceptions", createException.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedule-exceptions/{id}", deleteException.Handle).Methods(http.MethodDelete)

	// --- Окна приёма (очередь) ---
	protected.HandleFunc("/schedules", createSchedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/{id}", deleteSchedule.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/schedules/{id}/bookings", startBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/schedules/{id}/manual-bookings", manualBooking.Handle).Methods(http.MethodPost)

	return r
}
