package usecase

import (
	"errors"

	"barber-booking/internal/dto/request"
	"barber-booking/pkg/apperror"
	"barber-booking/pkg/utils"

	"github.com/google/uuid"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperror.InvalidFields(errs)
	}
	return nil
}

func parseID(id, field string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, apperror.InvalidFields(map[string]string{field: "Must be a valid UUID"})
	}
	return parsed, nil
}

func normalizePage(p *request.PaginatedRequest) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

// isAppError reports whether err already carries a client-facing kind.
func isAppError(err error) bool {
	var e *apperror.Error
	return errors.As(err, &e)
}
