package in

import (
	"context"

	sessiondto "mindflow/internal/modules/session/dto"
	sessionin "mindflow/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Open(ctx context.Context, input sessiondto.OpenInput) (sessiondto.SessionOutput, error) {
	return h.usecase.Open(ctx, input)
}

func (h CLIHandler) Reply(ctx context.Context, kind, message string) (sessiondto.SessionOutput, error) {
	return h.usecase.Reply(ctx, sessiondto.ReplyInput{Kind: kind, Message: message})
}

func (h CLIHandler) SubmitUnderstanding(ctx context.Context, answers []int) (sessiondto.UnderstandingOutput, error) {
	return h.usecase.SubmitUnderstanding(ctx, sessiondto.UnderstandingInput{Answers: answers})
}

func (h CLIHandler) Get(kind string) (sessiondto.SessionOutput, error) {
	return h.usecase.Get(kind)
}

func (h CLIHandler) List() []sessiondto.SessionOutput {
	return h.usecase.List()
}

func (h CLIHandler) Close(kind string) error {
	return h.usecase.Close(kind)
}

func (h CLIHandler) Last(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Last(ctx)
}

func (h CLIHandler) Subscribe() (<-chan struct{}, func()) {
	return h.usecase.Subscribe()
}
