package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/scheduling"
	"github.com/m04kA/SMC-HallBooking/pkg/types"
)

// busyIntervals интервалы активных бронирований, отсортированные по началу.
// Отменённые бронирования зал не занимают. Нечитаемые строки возвращаются в skipped.
func busyIntervals(bookings []*domain.Booking) ([]scheduling.TimeInterval, []int64) {
	active := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}

	snapshot, skipped := scheduling.FromDomainBookings(active)

	busy := make([]scheduling.TimeInterval, 0, len(snapshot))
	for _, b := range snapshot {
		busy = append(busy, b.Interval)
	}

	sort.Slice(busy, func(i, j int) bool {
		return busy[i].Start() < busy[j].Start()
	})

	return busy, skipped
}

// freeWindows вычисляет промежутки между занятыми интервалами внутри рабочих часов.
//
// Окно начинается не раньше notBefore (для сегодняшней даты - текущее время).
// Окна короче minDuration отбрасываются: заявку в них подать нельзя.
//
// Примеры (рабочие часы 09:00-16:30, minDuration 30):
// - занято 10:00-11:00 → окна 09:00-10:00, 11:00-16:30
// - занято 09:00-09:50 и 10:10-16:30 → окон нет (10 минут между ними)
// - занято 11:00-12:00 и 11:30-13:00 → окна 09:00-11:00, 13:00-16:30
func freeWindows(policy scheduling.Policy, busy []scheduling.TimeInterval, notBefore int, minDuration int) []domain.FreeWindow {
	windows := make([]domain.FreeWindow, 0)

	cursor := policy.Open
	if notBefore > cursor {
		cursor = notBefore
	}

	emit := func(start, end int) {
		if end-start < minDuration {
			return
		}
		windows = append(windows, domain.FreeWindow{
			StartTime:       clock(start),
			EndTime:         clock(end),
			DurationMinutes: end - start,
		})
	}

	for _, iv := range busy {
		start, end := iv.Minutes()
		if end <= cursor {
			continue
		}
		if start > cursor {
			emit(cursor, min(start, policy.Close))
		}
		if end > cursor {
			cursor = end
		}
		if cursor >= policy.Close {
			break
		}
	}

	if cursor < policy.Close {
		emit(cursor, policy.Close)
	}

	return windows
}

// minutesNotBefore минимальное время начала окна для даты: для прошлых дат весь день закрыт,
// для сегодняшней - текущее время, округлённое вверх до минуты
func minutesNotBefore(date, now time.Time) int {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	day := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)

	switch {
	case day.Before(today):
		return 24 * 60
	case day.After(today):
		return 0
	}

	minutes := now.Hour()*60 + now.Minute()
	if now.Second() > 0 || now.Nanosecond() > 0 {
		minutes++
	}
	return minutes
}

func clock(minutes int) types.TimeString {
	ts, err := types.NewTimeStringFromMinutes(minutes)
	if err != nil {
		return types.TimeString("")
	}
	return ts
}
