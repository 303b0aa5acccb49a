package booking

// DateField names a date attribute a range filter can be applied to.
type DateField string

const (
	DateFieldBooking   DateField = "bookingDate"
	DateFieldArrival   DateField = "arrivalDate"
	DateFieldDeparture DateField = "departureDate"
	DateFieldCancelled DateField = "cancelledDate"
)

var dateAccessors = map[DateField]func(*Booking) *Date{
	DateFieldBooking:   func(b *Booking) *Date { d := b.bookingDate; return &d },
	DateFieldArrival:   func(b *Booking) *Date { d := b.arrivalDate; return &d },
	DateFieldDeparture: func(b *Booking) *Date { d := b.departureDate; return &d },
	DateFieldCancelled: func(b *Booking) *Date { return b.cancelledDate },
}

// FilterByStatus keeps the bookings whose classification on today matches
// filter. "all" and the empty filter return records unchanged.
func FilterByStatus(records []*Booking, filter StatusFilter, today Date) []*Booking {
	class, ok := filter.normalize()
	if !ok {
		return records
	}

	result := make([]*Booking, 0, len(records))
	for _, b := range records {
		if b.Classification(today) == class {
			result = append(result, b)
		}
	}
	return result
}

// FilterByDateRange keeps the bookings whose field lies within [from, to].
// A nil bound is open. Bookings with a null field value are always excluded.
func FilterByDateRange(records []*Booking, from, to *Date, field DateField) []*Booking {
	accessor, ok := dateAccessors[field]
	if !ok {
		accessor = dateAccessors[DateFieldBooking]
	}

	result := make([]*Booking, 0, len(records))
	for _, b := range records {
		d := accessor(b)
		if d == nil || *d == "" {
			continue
		}
		if from != nil && d.Before(*from) {
			continue
		}
		if to != nil && d.After(*to) {
			continue
		}
		result = append(result, b)
	}
	return result
}
