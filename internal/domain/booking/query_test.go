package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	name      string
	booked    Date
	arrival   Date
	departure Date
	value     float64
	refund    float64
	cancelled *Date
}

func (f fixture) build() *Booking {
	status := StatusConfirmed
	if f.cancelled != nil {
		status = StatusCancelled
	}
	booked := f.booked
	if booked == "" {
		booked = "2026-09-01"
	}
	now := time.Now().UTC()
	return ReconstructBooking(uuid.New(), f.name, booked, f.value, f.arrival, f.departure,
		f.cancelled, f.refund, status, 1, now, now)
}

func datePtr(d Date) *Date { return &d }

func names(records []*Booking) []string {
	out := make([]string, len(records))
	for i, b := range records {
		out[i] = b.Name()
	}
	return out
}

// upcoming, departs today, completed, cancelled-in-future, cancelled-in-past
func sampleBookings() []*Booking {
	return []*Booking{
		fixture{name: "upcoming", booked: "2026-09-01", arrival: "2026-10-20", departure: "2026-10-22", value: 100}.build(),
		fixture{name: "today", booked: "2026-09-10", arrival: "2026-10-13", departure: "2026-10-15", value: 200, refund: 0}.build(),
		fixture{name: "completed", booked: "2026-08-01", arrival: "2026-08-10", departure: "2026-08-12", value: 300}.build(),
		fixture{name: "cancelled-future", booked: "2026-09-20", arrival: "2026-11-01", departure: "2026-11-05", value: 400, refund: 100, cancelled: datePtr("2026-10-01")}.build(),
		fixture{name: "cancelled-past", booked: "2026-07-01", arrival: "2026-07-10", departure: "2026-07-12", value: 500, refund: 500, cancelled: datePtr("2026-07-05")}.build(),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status    Status
		departure Date
		want      Classification
	}{
		{StatusConfirmed, "2026-10-16", ClassUpcoming},
		{StatusConfirmed, today, ClassUpcoming},
		{StatusConfirmed, "2026-10-14", ClassCompleted},
		{StatusCancelled, "2026-10-14", ClassCancelled},
		{StatusCancelled, "2026-12-01", ClassCancelled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.status, tt.departure, today), "%s %s", tt.status, tt.departure)
	}
}

func TestParseStatusFilter(t *testing.T) {
	for _, s := range []string{"confirmed", "cancelled", "completed", "all"} {
		f, err := ParseStatusFilter(s)
		require.NoError(t, err)
		assert.Equal(t, StatusFilter(s), f)
	}
	f, err := ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseStatusFilter("pending")
	assert.Error(t, err)
}

func TestFilterByStatus(t *testing.T) {
	records := sampleBookings()

	tests := []struct {
		filter StatusFilter
		want   []string
	}{
		{"", []string{"upcoming", "today", "completed", "cancelled-future", "cancelled-past"}},
		{FilterAll, []string{"upcoming", "today", "completed", "cancelled-future", "cancelled-past"}},
		{FilterConfirmed, []string{"upcoming", "today"}},
		{FilterCancelled, []string{"cancelled-future", "cancelled-past"}},
		{FilterCompleted, []string{"completed"}},
		// unrecognized values fall back to completed
		{StatusFilter("anything"), []string{"completed"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			assert.Equal(t, tt.want, names(FilterByStatus(records, tt.filter, today)))
		})
	}
}

func TestFilterByStatus_AllReturnsInputUnchanged(t *testing.T) {
	records := sampleBookings()
	got := FilterByStatus(records, FilterAll, today)
	require.Len(t, got, len(records))
	for i := range records {
		assert.Same(t, records[i], got[i])
	}
}

func TestFilterByDateRange(t *testing.T) {
	records := sampleBookings()

	got := FilterByDateRange(records, datePtr("2026-09-01"), datePtr("2026-09-20"), DateFieldBooking)
	assert.Equal(t, []string{"upcoming", "today", "cancelled-future"}, names(got))

	got = FilterByDateRange(records, datePtr("2026-10-13"), datePtr("2026-10-22"), DateFieldArrival)
	assert.Equal(t, []string{"upcoming", "today"}, names(got))

	got = FilterByDateRange(records, nil, datePtr("2026-08-12"), DateFieldDeparture)
	assert.Equal(t, []string{"completed", "cancelled-past"}, names(got))

	got = FilterByDateRange(records, datePtr("2026-10-22"), nil, DateFieldDeparture)
	assert.Equal(t, []string{"upcoming", "cancelled-future"}, names(got))
}

func TestFilterByDateRange_NullFieldExcluded(t *testing.T) {
	records := sampleBookings()

	got := FilterByDateRange(records, datePtr("2000-01-01"), datePtr("2100-01-01"), DateFieldCancelled)
	assert.Equal(t, []string{"cancelled-future", "cancelled-past"}, names(got))

	got = FilterByDateRange(records, nil, nil, DateFieldCancelled)
	assert.Equal(t, []string{"cancelled-future", "cancelled-past"}, names(got))
}

func TestNetRevenue(t *testing.T) {
	a := fixture{name: "A", arrival: "2026-10-20", departure: "2026-10-21", value: 100}.build()
	b := fixture{name: "B", arrival: "2026-10-20", departure: "2026-10-21", value: 200, refund: 50}.build()

	assert.Equal(t, 250.0, NetRevenue([]*Booking{a, b}))
	assert.Equal(t, 250.0, NetRevenue([]*Booking{b, a}))
	assert.Equal(t, 0.0, NetRevenue(nil))
	assert.Equal(t, 900.0, NetRevenue(sampleBookings()))
}
