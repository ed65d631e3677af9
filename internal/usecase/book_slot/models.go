package book_slot

// Request запрос на запись в конкретный слот
type Request struct {
	PatientID int64
	SlotID    int64
	Notes     *string
}
