package domain

import "time"

// AssertValidStatusTransition проверяет допустимость перехода статуса записи.
//
// Правила:
//   - переход в тот же статус всегда допустим;
//   - из CANCELLED, COMPLETED и NO_SHOW переходов нет;
//   - в CONFIRMED/BOOKED можно перейти из PENDING, PENDING_PAYMENT или синонимичного статуса, пока приём не закончился;
//   - в COMPLETED и NO_SHOW можно перейти только из CONFIRMED/BOOKED после начала приёма;
//   - в CANCELLED можно перейти из любого незавершённого статуса;
//   - остальные переходы (например, CONFIRMED -> PENDING) запрещены.
func AssertValidStatusTransition(from, to AppointmentStatus, startAt, endAt, now time.Time) error {
	if !to.IsValid() {
		return ErrInvalidStatus.WithMessage("unknown appointment status %q", to)
	}
	if from == to {
		return nil
	}
	if from.IsTerminal() {
		return ErrTerminalStatus.WithMessage("appointment is %s and cannot move to %s", from, to)
	}

	switch to {
	case StatusConfirmed, StatusBooked:
		if now.After(endAt) {
			return ErrAppointmentEnded.WithMessage("cannot confirm appointment that ended at %s", endAt.Format(time.RFC3339))
		}
		return nil

	case StatusCompleted, StatusNoShow:
		if !from.IsConfirmed() {
			return ErrInvalidStatusTransition.WithMessage("cannot move appointment from %s to %s", from, to)
		}
		if now.Before(startAt) {
			return ErrAppointmentNotStarted.WithMessage("cannot mark appointment as %s before it starts", to)
		}
		return nil

	case StatusCancelled:
		return nil
	}

	return ErrInvalidStatusTransition.WithMessage("cannot move appointment from %s to %s", from, to)
}
