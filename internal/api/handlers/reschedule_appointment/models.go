package reschedule_appointment

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	NewSlotID int64 `json:"newSlotId"`
}
