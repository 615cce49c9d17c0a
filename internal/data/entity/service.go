package entity

// Service is a bookable offering. DurationMin is reported to clients but every
// booking occupies the chair for the fixed effective duration.
type Service struct {
	BaseNoDelete
	Name        string  `db:"name"`
	Description *string `db:"description"`
	DurationMin int     `db:"duration_min"`
	Price       float64 `db:"price"`
	Active      bool    `db:"active"`
}
