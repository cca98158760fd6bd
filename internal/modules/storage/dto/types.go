package dto

type ExportOutput struct {
	Payload   []byte
	Version   string
	Timestamp int64
	Keys      []string
}

type ImportInput struct {
	Payload []byte
	Confirm bool
}

type ResetInput struct {
	Confirm bool
}
