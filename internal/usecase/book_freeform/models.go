package book_freeform

import "time"

// Request запрос на запись на произвольное время внутри окна доступности врача
type Request struct {
	PatientID int64
	DoctorID  int64
	StartAt   time.Time
	EndAt     time.Time
	Notes     *string
}
