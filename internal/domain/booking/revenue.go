package booking

// NetRevenue sums value minus refund over records. The sum does not depend on
// the order of records.
func NetRevenue(records []*Booking) float64 {
	var total float64
	for _, b := range records {
		total += b.NetValue()
	}
	return total
}
