package booking

import (
	"fmt"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortField names a sortable booking attribute.
type SortField string

const (
	SortByBookingID     SortField = "bookingId"
	SortByName          SortField = "name"
	SortByBookingDate   SortField = "bookingDate"
	SortByValue         SortField = "value"
	SortByArrivalDate   SortField = "arrivalDate"
	SortByDepartureDate SortField = "departureDate"
	SortByCancelledDate SortField = "cancelledDate"
	SortByRefundValue   SortField = "refundValue"
	SortByStatus        SortField = "status"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindString
	kindNumber
)

// sortValue is the typed value of a sortable field.
type sortValue struct {
	kind valueKind
	str  string
	num  float64
}

func stringValue(s string) sortValue  { return sortValue{kind: kindString, str: s} }
func numberValue(n float64) sortValue { return sortValue{kind: kindNumber, num: n} }

func (v sortValue) String() string {
	switch v.kind {
	case kindString:
		return v.str
	case kindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return "null"
	}
}

// sortAccessors is the closed dispatch table of sortable fields.
var sortAccessors = map[SortField]func(*Booking) sortValue{
	SortByBookingID:     func(b *Booking) sortValue { return stringValue(b.id.String()) },
	SortByName:          func(b *Booking) sortValue { return stringValue(b.name) },
	SortByBookingDate:   func(b *Booking) sortValue { return stringValue(string(b.bookingDate)) },
	SortByValue:         func(b *Booking) sortValue { return numberValue(b.value) },
	SortByArrivalDate:   func(b *Booking) sortValue { return stringValue(string(b.arrivalDate)) },
	SortByDepartureDate: func(b *Booking) sortValue { return stringValue(string(b.departureDate)) },
	SortByCancelledDate: func(b *Booking) sortValue {
		if b.cancelledDate == nil {
			return sortValue{kind: kindNull}
		}
		return stringValue(string(*b.cancelledDate))
	},
	SortByRefundValue: func(b *Booking) sortValue { return numberValue(b.refundValue) },
	SortByStatus:      func(b *Booking) sortValue { return stringValue(string(b.status)) },
}

// ParseSortField rejects names outside the nine sortable fields.
func ParseSortField(s string) (SortField, error) {
	f := SortField(s)
	if _, ok := sortAccessors[f]; !ok {
		return "", fmt.Errorf("sortBy must be one of: bookingId, name, bookingDate, value, arrivalDate, departureDate, cancelledDate, refundValue, status")
	}
	return f, nil
}

// ParseSortOrder accepts asc and desc. The empty string is asc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case "":
		return OrderAsc, nil
	case OrderAsc, OrderDesc:
		return o, nil
	default:
		return "", fmt.Errorf("order must be either \"asc\" or \"desc\"")
	}
}

// Sort returns a stably sorted copy of records ordered by field. Null values
// sort last in ascending order and first in descending order. An unknown
// field returns the copy unsorted.
func Sort(records []*Booking, field SortField, order SortOrder) []*Booking {
	sorted := make([]*Booking, len(records))
	copy(sorted, records)

	accessor, ok := sortAccessors[field]
	if !ok {
		return sorted
	}

	col := collate.New(language.Und)
	desc := order == OrderDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		c := compareValues(col, accessor(sorted[i]), accessor(sorted[j]))
		if desc {
			c = -c
		}
		return c < 0
	})
	return sorted
}

// compareValues orders a before b (negative), equal (zero) or after (positive)
// for ascending order.
func compareValues(col *collate.Collator, a, b sortValue) int {
	switch {
	case a.kind == kindNull && b.kind == kindNull:
		return 0
	case a.kind == kindNull:
		return 1
	case b.kind == kindNull:
		return -1
	case a.kind == kindString && b.kind == kindString:
		return col.CompareString(a.str, b.str)
	case a.kind == kindNumber && b.kind == kindNumber:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		default:
			return 0
		}
	default:
		return col.CompareString(a.String(), b.String())
	}
}
