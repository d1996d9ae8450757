package export_hall_calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/m04kA/SMC-HallBooking/internal/domain"
	"github.com/m04kA/SMC-HallBooking/internal/service/bookings/models"
)

const (
	productID = "-//SMC//Hall Booking//EN"
	uidDomain = "hall-booking.smc"

	// "плавающее" локальное время без TZID: сервис работает без часовых поясов
	icsLocalFormat = "20060102T150405"
)

// buildCalendar собирает iCalendar (RFC 5545) из бронирований зала.
// Строки с нечитаемой датой или временем пропускаются и возвращаются отдельно.
func buildCalendar(hall domain.HallID, bookings []models.BookingResponse, stamp time.Time) (string, []int64) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(hall.DisplayName())

	var skipped []int64
	for _, b := range bookings {
		start, end, err := bookingBounds(b)
		if err != nil {
			skipped = append(skipped, b.ID)
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("booking-%d@%s", b.ID, uidDomain))
		event.SetDtStampTime(stamp)
		if !b.CreatedAt.IsZero() {
			event.SetCreatedTime(b.CreatedAt)
			event.SetModifiedAt(b.UpdatedAt)
		}
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalFormat))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalFormat))
		event.SetSummary(b.Purpose)
		event.SetLocation(b.HallName)
		event.SetDescription(description(b))
		event.SetStatus(eventStatus(domain.BookingStatus(b.Status)))
	}

	return cal.Serialize(), skipped
}

func bookingBounds(b models.BookingResponse) (time.Time, time.Time, error) {
	start, err := time.Parse(domain.DateFormat+" "+domain.TimeFormat, b.BookingDate+" "+b.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(domain.DateFormat+" "+domain.TimeFormat, b.BookingDate+" "+b.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func description(b models.BookingResponse) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s, %s", b.RequesterName, b.Department)
	if b.RequesterEmail != nil {
		fmt.Fprintf(&sb, " <%s>", *b.RequesterEmail)
	}
	fmt.Fprintf(&sb, "\nStatus: %s", b.Status)
	return sb.String()
}

// pending заявки ещё не подтверждены сотрудником
func eventStatus(s domain.BookingStatus) ics.ObjectStatus {
	switch s {
	case domain.StatusPending:
		return ics.ObjectStatusTentative
	case domain.StatusCancelled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}
