package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey      = "generator"
	serviceName       = "mindflow.generator.v1.Generator"
	jsonCodecName     = "json"
	methodGetMetadata = "/" + serviceName + "/GetMetadata"
	methodGenerate    = "/" + serviceName + "/Generate"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MINDFLOW_PLUGIN",
	MagicCookieValue: "mindflow-generator",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
}

type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type GenerateRequest struct {
	Operation  string `json:"operation"`
	System     string `json:"system"`
	Prompt     string `json:"prompt"`
	History    []Turn `json:"history"`
	SchemaJSON string `json:"schema_json"`
	Subject    string `json:"subject"`
	Count      int32  `json:"count"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}

type GeneratorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	Generate(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error)
}

type GeneratorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	Generate(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error)
}

type generatorClient struct {
	conn *grpc.ClientConn
}

func NewGeneratorClient(conn *grpc.ClientConn) GeneratorClient {
	return &generatorClient{conn: conn}
}

func (c *generatorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *generatorClient) Generate(ctx context.Context, in *GenerateRequest) (*GenerateResponse, error) {
	out := &GenerateResponse{}
	if err := c.conn.Invoke(ctx, methodGenerate, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterGeneratorServer(server grpc.ServiceRegistrar, impl GeneratorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*GeneratorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Generate",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &GenerateRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Generate(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGenerate}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*GenerateRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Generate(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "generator-rpc-v1",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl GeneratorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterGeneratorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewGeneratorClient(conn), nil
}

func PluginMap(impl GeneratorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
