package dto

import (
	"time"

	appavailability "leihbar/internal/app/availability"
	domainavailability "leihbar/internal/domain/availability"
	domainbooking "leihbar/internal/domain/booking"
	domainrange "leihbar/internal/domain/shared/daterange"
)

type Availability struct {
	OfferID          string   `json:"offer_id"`
	Start            string   `json:"start"`
	End              string   `json:"end"`
	IsAvailable      bool     `json:"is_available"`
	AvailableDates   []string `json:"available_dates"`
	UnavailableDates []string `json:"unavailable_dates"`
	PricePerDay      MoneyDTO `json:"price_per_day"`
}

func MapAvailability(res appavailability.Result) Availability {
	return Availability{
		OfferID:          string(res.Offer.ID),
		Start:            domainrange.FormatDay(res.Range.Start),
		End:              domainrange.FormatDay(res.Range.End),
		IsAvailable:      res.IsAvailable,
		AvailableDates:   formatDays(res.AvailableDates),
		UnavailableDates: formatDays(res.UnavailableDates),
		PricePerDay:      MapMoney(res.DailyRate),
	}
}

type CalendarDay struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type Calendar struct {
	OfferID string        `json:"offer_id"`
	From    string        `json:"from"`
	To      string        `json:"to"`
	Days    []CalendarDay `json:"days"`
}

// MapCalendar flattens confirmed bookings and blocked overrides into one
// day-status list for the requested window.
func MapCalendar(offerID string, window domainrange.DateRange, bookings []*domainbooking.Booking, overrides []domainavailability.Override) Calendar {
	reasons := make(map[time.Time]string)
	booked := make(map[time.Time]struct{})
	for _, b := range bookings {
		if b.Status != domainbooking.StatusConfirmed {
			continue
		}
		for _, day := range b.Range.EachDay() {
			if window.ContainsDay(day) {
				booked[day] = struct{}{}
			}
		}
	}
	blocked := make(map[time.Time]struct{})
	for _, o := range overrides {
		if o.Available {
			continue
		}
		day := domainrange.Day(o.Date)
		if window.ContainsDay(day) {
			blocked[day] = struct{}{}
			reasons[day] = o.Reason
		}
	}

	cal := Calendar{
		OfferID: offerID,
		From:    domainrange.FormatDay(window.Start),
		To:      domainrange.FormatDay(window.End),
		Days:    make([]CalendarDay, 0),
	}
	for _, day := range window.EachDay() {
		if _, ok := booked[day]; ok {
			cal.Days = append(cal.Days, CalendarDay{Date: domainrange.FormatDay(day), Status: "BOOKED"})
			continue
		}
		if _, ok := blocked[day]; ok {
			cal.Days = append(cal.Days, CalendarDay{Date: domainrange.FormatDay(day), Status: "BLOCKED", Reason: reasons[day]})
		}
	}
	return cal
}

func formatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, domainrange.FormatDay(d))
	}
	return out
}
