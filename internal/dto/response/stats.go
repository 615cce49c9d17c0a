package response

type StatsResponse struct {
	From          string           `json:"from"`
	To            string           `json:"to"`
	TotalBookings int              `json:"totalBookings"`
	ByStatus      map[string]int   `json:"byStatus"`
	Revenue       float64          `json:"revenue"`
	Today         TodayStats       `json:"today"`
	RevenueByDay  []DayRevenue     `json:"revenueByDay"`
	TopServices   []ServiceRanking `json:"topServices"`
}

type TodayStats struct {
	Date         string            `json:"date"`
	Bookings     int               `json:"bookings"`
	Completed    int               `json:"completed"`
	Revenue      float64           `json:"revenue"`
	NextBookings []BookingResponse `json:"nextBookings"`
}

type DayRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// ServiceRanking counts completed bookings of one service.
type ServiceRanking struct {
	ServiceID string  `json:"serviceId"`
	Name      string  `json:"name"`
	Count     int     `json:"count"`
	Revenue   float64 `json:"revenue"`
}
