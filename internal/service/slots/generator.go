package slots

import (
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/timewindow"
)

// GenerateInput параметры нарезки окна доступности на слоты
type GenerateInput struct {
	Availability *domain.Availability
	Template     *domain.SlotTemplate
	Now          time.Time
	Location     *time.Location
}

// Generate нарезает окно доступности на слоты по шаблону врача.
// Все слоты создаются в статусе AVAILABLE; исключения и занятость учитываются при чтении и бронировании.
func Generate(in GenerateInput) []domain.SlotCandidate {
	a := in.Availability
	if a.IsRecurring {
		return generateRecurring(in)
	}
	if a.StartAt == nil || a.EndAt == nil {
		return nil
	}
	return layoutOneTime(a.DoctorID, ptr.Ptr(a.ID), nil, *a.StartAt, *a.EndAt, in.Template)
}

// generateRecurring обходит даты от max(сегодня, validFrom) до min(validTo, сегодня + advanceBookingDays)
func generateRecurring(in GenerateInput) []domain.SlotCandidate {
	a := in.Availability
	if a.DayOfWeek == nil {
		return nil
	}
	loc := in.Location

	today := timewindow.DateOnly(in.Now, loc)
	from := today
	if a.ValidFrom != nil {
		if validFrom := timewindow.CalendarDate(*a.ValidFrom, loc); validFrom.After(from) {
			from = validFrom
		}
	}
	to := today.AddDate(0, 0, in.Template.AdvanceBookingDays)
	if a.ValidTo != nil {
		if validTo := timewindow.CalendarDate(*a.ValidTo, loc); validTo.Before(to) {
			to = validTo
		}
	}

	result := make([]domain.SlotCandidate, 0)
	day := from
	for i := 0; i < domain.MaxGenerationDays && !day.After(to); i++ {
		if int(day.Weekday()) == *a.DayOfWeek {
			start, errStart := a.StartTime.OnDate(day, loc)
			end, errEnd := a.EndTime.OnDate(day, loc)
			if errStart == nil && errEnd == nil {
				result = append(result, layout(a.DoctorID, ptr.Ptr(a.ID), nil, start, end, in.Template)...)
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return result
}

// GenerateForException нарезает дополнительное рабочее время (исключение AVAILABLE) на слоты.
// Каждый день диапазона обрабатывается как разовое окно; без времени - весь день 00:00-23:59.
func GenerateForException(e *domain.ScheduleException, tmpl *domain.SlotTemplate, loc *time.Location) []domain.SlotCandidate {
	if e.Type != domain.ExceptionAvailable || e.DoctorID == nil {
		return nil
	}

	startMin, endMin := 0, timewindow.MinutesPerDay-1
	if !e.IsFullDay() {
		var err error
		if startMin, err = e.StartTime.Minutes(); err != nil {
			return nil
		}
		if endMin, err = e.EndTime.Minutes(); err != nil {
			return nil
		}
	}

	result := make([]domain.SlotCandidate, 0)
	day := timewindow.CalendarDate(e.DateFrom, loc)
	last := timewindow.CalendarDate(e.DateTo, loc)
	for i := 0; i < domain.MaxGenerationDays && !day.After(last); i++ {
		start := timewindow.AtMinutes(day, startMin, loc)
		end := timewindow.AtMinutes(day, endMin, loc)
		result = append(result, layoutOneTime(*e.DoctorID, nil, ptr.Ptr(e.ID), start, end, tmpl)...)
		day = day.AddDate(0, 0, 1)
	}

	return result
}

// layoutOneTime как layout, но окно короче одного слота даёт ровно один слот на всё окно
func layoutOneTime(doctorID int64, availabilityID, exceptionID *int64, start, end time.Time, tmpl *domain.SlotTemplate) []domain.SlotCandidate {
	if !end.After(start) {
		return nil
	}
	if end.Sub(start) < tmpl.Duration() {
		return []domain.SlotCandidate{{
			DoctorID:       doctorID,
			AvailabilityID: availabilityID,
			ExceptionID:    exceptionID,
			StartAt:        start,
			EndAt:          end,
		}}
	}
	return layout(doctorID, availabilityID, exceptionID, start, end, tmpl)
}

// layout раскладывает слоты длиной duration с шагом duration+buffer, не выходя за конец окна
func layout(doctorID int64, availabilityID, exceptionID *int64, start, end time.Time, tmpl *domain.SlotTemplate) []domain.SlotCandidate {
	duration := tmpl.Duration()
	step := tmpl.Step()
	if duration <= 0 || step <= 0 {
		return nil
	}

	result := make([]domain.SlotCandidate, 0)
	for s := start; !s.Add(duration).After(end); s = s.Add(step) {
		result = append(result, domain.SlotCandidate{
			DoctorID:       doctorID,
			AvailabilityID: availabilityID,
			ExceptionID:    exceptionID,
			StartAt:        s,
			EndAt:          s.Add(duration),
		})
	}
	return result
}

// FilterNew отбрасывает кандидатов, которые уже есть среди existing (по началу и концу),
// начинаются раньше now или имеют неположительную длительность
func FilterNew(candidates []domain.SlotCandidate, existing []*domain.Slot, now time.Time) []domain.SlotCandidate {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, s := range existing {
		seen[s.Key()] = struct{}{}
	}

	result := make([]domain.SlotCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.EndAt.After(c.StartAt) || c.StartAt.Before(now) {
			continue
		}
		key := c.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, c)
	}
	return result
}
