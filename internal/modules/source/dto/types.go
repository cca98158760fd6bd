package dto

import gendomain "mindflow/internal/modules/generation/domain"

type LoadInput struct {
	Kind  gendomain.SourceKind
	Value string
}

type LoadOutput struct {
	Source    gendomain.Source
	Origin    string
	Truncated bool
}
