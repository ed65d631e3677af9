package confirm_payment

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	metricKind = "payment"

	// eventKeyPrefix префикс ключа идемпотентности события
	eventKeyPrefix = "payment-event:"
	eventKeyTTL    = 24 * time.Hour

	fullNote     = "Cancelled: schedule is full, refund required"
	failedNote   = "Cancelled: payment failed"
	lateNote     = "Payment received after cancellation, refund required"
	fullReason   = "schedule is full"
	failedReason = "payment failed"
)

// Outcome результат обработки события
type Outcome string

const (
	OutcomeConfirmed    Outcome = "confirmed"
	OutcomeScheduleFull Outcome = "schedule_full"
	OutcomeCancelled    Outcome = "cancelled"
	OutcomeRefund       Outcome = "refund_required"
	OutcomeIgnored      Outcome = "ignored"
	OutcomeDuplicate    Outcome = "duplicate"
)

// Request тело вебхука и заголовок подписи
type Request struct {
	Payload   []byte
	Signature string
}

// Result итог обработки события
type Result struct {
	EventID     string
	EventType   string
	Outcome     Outcome
	Appointment *domain.Appointment
}
