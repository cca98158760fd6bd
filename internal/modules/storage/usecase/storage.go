package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"mindflow/internal/modules/storage/domain"
	"mindflow/internal/modules/storage/dto"
	storagein "mindflow/internal/modules/storage/port/in"
	storageout "mindflow/internal/modules/storage/port/out"
	"mindflow/internal/modules/storage/service"
	apperrors "mindflow/internal/platform/errors"
)

type Interactor struct {
	svc      *service.PersistenceService
	reloader storageout.StateReloader
}

func NewInteractor(svc *service.PersistenceService, reloader storageout.StateReloader) storagein.Usecase {
	return &Interactor{svc: svc, reloader: reloader}
}

func (i *Interactor) Export(ctx context.Context) (dto.ExportOutput, error) {
	backup, err := i.svc.Export(ctx)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	payload, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return dto.ExportOutput{}, fmt.Errorf("marshal backup: %w", err)
	}
	keys := []string{}
	present := map[string]bool{
		"courses":          backup.Courses != nil,
		"folders":          backup.Folders != nil,
		"projects":         backup.Projects != nil,
		"articles":         backup.Articles != nil,
		"guestUserProfile": backup.GuestUserProfile != nil,
		"chatHistory":      backup.ChatHistory != nil,
		"testResults":      backup.TestResults != nil,
		"learningPlans":    backup.LearningPlans != nil,
	}
	for _, field := range domain.BackupFields {
		if present[field.Name] {
			keys = append(keys, field.Name)
		}
	}
	return dto.ExportOutput{Payload: payload, Version: backup.BackupVersion, Timestamp: backup.Timestamp, Keys: keys}, nil
}

func (i *Interactor) Import(ctx context.Context, input dto.ImportInput) error {
	if !input.Confirm {
		return apperrors.ErrNotConfirmed
	}
	if err := i.svc.Import(ctx, input.Payload); err != nil {
		return err
	}
	return i.reload(ctx)
}

func (i *Interactor) Reset(ctx context.Context, input dto.ResetInput) error {
	if !input.Confirm {
		return apperrors.ErrNotConfirmed
	}
	if err := i.svc.Reset(ctx); err != nil {
		return err
	}
	return i.reload(ctx)
}

func (i *Interactor) reload(ctx context.Context) error {
	if i.reloader == nil {
		return nil
	}
	return i.reloader.Reload(ctx)
}
