package manual_booking

// ManualBookingRequest HTTP request model
type ManualBookingRequest struct {
	PatientID int64   `json:"patientId"`
	Notes     *string `json:"notes,omitempty"`
}
