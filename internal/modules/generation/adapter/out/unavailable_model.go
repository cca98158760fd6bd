package out

import (
	"context"

	"mindflow/internal/modules/generation/domain"
	genout "mindflow/internal/modules/generation/port/out"
)

// UnavailableModel stands in for a backend that could not be configured so
// the rest of the application keeps working. Every call fails with err.
type UnavailableModel struct {
	err error
}

func NewUnavailableModel(err error) *UnavailableModel {
	return &UnavailableModel{err: err}
}

var _ genout.Model = (*UnavailableModel)(nil)

func (m *UnavailableModel) Generate(context.Context, domain.Request) (string, error) {
	return "", m.err
}
