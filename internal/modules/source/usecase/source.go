package usecase

import (
	"context"

	"mindflow/internal/modules/source/dto"
	sourcein "mindflow/internal/modules/source/port/in"
	"mindflow/internal/modules/source/service"
)

type Interactor struct {
	svc *service.SourceService
}

func NewInteractor(svc *service.SourceService) sourcein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Load(ctx context.Context, input dto.LoadInput) (dto.LoadOutput, error) {
	return i.svc.Load(ctx, input)
}
