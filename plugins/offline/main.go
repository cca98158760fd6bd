package main

import (
	"context"

	genout "mindflow/internal/modules/generation/adapter/out"
	generatorrpc "mindflow/internal/modules/generation/adapter/out/rpc"

	"github.com/hashicorp/go-plugin"
)

type server struct {
	model *genout.OfflineModel
}

func (s *server) GetMetadata(_ context.Context, _ *generatorrpc.Empty) (*generatorrpc.Metadata, error) {
	return &generatorrpc.Metadata{
		Name:         genout.OfflineName,
		Version:      genout.OfflineVersion,
		Capabilities: []string{"structured", "text", "chat"},
	}, nil
}

func (s *server) Generate(ctx context.Context, in *generatorrpc.GenerateRequest) (*generatorrpc.GenerateResponse, error) {
	req, err := genout.FromRPCRequest(in)
	if err != nil {
		return nil, err
	}
	text, err := s.model.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return &generatorrpc.GenerateResponse{Text: text}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: generatorrpc.HandshakeConfig,
		Plugins:         generatorrpc.PluginMap(&server{model: genout.NewOfflineModel()}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
