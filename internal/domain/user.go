package domain

// Role роль пользователя
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// IsValid проверяет, что роль известна
func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Actor пользователь, выполняющий операцию
type Actor struct {
	UserID   int64
	Role     Role
	DoctorID *int64 // задан для роли DOCTOR
}

// IsDoctor проверяет, что актор - врач с указанным ID
func (a Actor) IsDoctor(doctorID int64) bool {
	return a.Role == RoleDoctor && a.DoctorID != nil && *a.DoctorID == doctorID
}

// CanManageDoctor врач управляет своим расписанием, администратор - любым
func (a Actor) CanManageDoctor(doctorID int64) bool {
	return a.Role == RoleAdmin || a.IsDoctor(doctorID)
}

// User пациент, врач или администратор
type User struct {
	ID       int64
	Role     Role
	Email    string
	FullName string
}

// Doctor профиль врача
type Doctor struct {
	ID                   int64
	UserID               int64
	FullName             string
	Email                string
	ConsultationFeeCents int64
	Currency             string
}

// HasPrice проверяет, что у врача задана положительная стоимость приёма
func (d *Doctor) HasPrice() bool {
	return d.ConsultationFeeCents > 0
}
