package request

type StatsRequest struct {
	From *string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To   *string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}
