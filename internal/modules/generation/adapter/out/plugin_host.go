package out

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	generatorrpc "mindflow/internal/modules/generation/adapter/out/rpc"
	"mindflow/internal/modules/generation/domain"
	genout "mindflow/internal/modules/generation/port/out"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 5 * time.Second
)

// GRPCHost launches generator plugins on demand. Each call starts the binary,
// dispenses the client and kills the process when done.
type GRPCHost struct {
	startTimeout time.Duration
}

func NewGRPCHost() *GRPCHost {
	return &GRPCHost{startTimeout: defaultStartTimeout}
}

var _ genout.Host = (*GRPCHost)(nil)

func (h *GRPCHost) CheckLifecycle(ctx context.Context, manifest domain.Manifest) error {
	_, err := h.GetMetadata(ctx, manifest)
	return err
}

func (h *GRPCHost) GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error) {
	client, closeFn, err := h.connect(manifest)
	if err != nil {
		return domain.Metadata{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("get metadata: %w", err)
	}
	capabilities := make([]domain.Capability, 0, len(meta.Capabilities))
	for _, capability := range meta.Capabilities {
		capabilities = append(capabilities, domain.Capability(capability))
	}
	return domain.Metadata{Name: meta.Name, Version: meta.Version, Capabilities: capabilities}, nil
}

func (h *GRPCHost) connect(manifest domain.Manifest) (generatorrpc.GeneratorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  generatorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          generatorrpc.PluginMap(nil),
		Cmd:              exec.Command(manifest.Binary),
		Managed:          true,
		StartTimeout:     h.startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start generator plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(generatorrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense generator plugin: %w", err)
	}
	typed, ok := raw.(generatorrpc.GeneratorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("generator rpc client type mismatch")
	}
	return typed, closeFn, nil
}

// callContext bounds a call only when the caller has not set a deadline.
// A zero timeout leaves the context unbounded.
func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok || timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// PluginModel is a Model backed by a verified generator plugin.
type PluginModel struct {
	host     *GRPCHost
	manifest domain.Manifest
	timeout  time.Duration
}

func NewPluginModel(host *GRPCHost, manifest domain.Manifest, timeout time.Duration) *PluginModel {
	if host == nil {
		host = NewGRPCHost()
	}
	return &PluginModel{host: host, manifest: manifest, timeout: timeout}
}

var _ genout.Model = (*PluginModel)(nil)

func (m *PluginModel) Generate(ctx context.Context, req domain.Request) (string, error) {
	if !m.manifest.Supports(req.Operation) {
		return "", fmt.Errorf("%w: %s cannot serve %s", domain.ErrCapabilityMissing, m.manifest.Name, req.Operation)
	}
	client, closeFn, err := m.host.connect(m.manifest)
	if err != nil {
		return "", err
	}
	defer closeFn()

	in, err := toRPCRequest(req)
	if err != nil {
		return "", err
	}
	callCtx, cancel := callContext(ctx, m.timeout)
	defer cancel()
	resp, err := client.Generate(callCtx, in)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", domain.ErrPluginTimeout, req.Operation)
		}
		return "", fmt.Errorf("generate: %w", err)
	}
	return resp.Text, nil
}

func toRPCRequest(req domain.Request) (*generatorrpc.GenerateRequest, error) {
	out := &generatorrpc.GenerateRequest{
		Operation: string(req.Operation),
		System:    req.System,
		Prompt:    req.Prompt,
		Subject:   req.Subject,
		Count:     int32(req.Count),
	}
	for _, turn := range req.History {
		out.History = append(out.History, generatorrpc.Turn{Role: string(turn.Role), Text: turn.Text})
	}
	if req.Schema != nil {
		raw, err := json.Marshal(req.Schema)
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		out.SchemaJSON = string(raw)
	}
	return out, nil
}

// FromRPCRequest is the plugin-side inverse of the host encoding.
func FromRPCRequest(in *generatorrpc.GenerateRequest) (domain.Request, error) {
	req := domain.Request{
		Operation: domain.Operation(in.Operation),
		System:    in.System,
		Prompt:    in.Prompt,
		Subject:   in.Subject,
		Count:     int(in.Count),
	}
	for _, turn := range in.History {
		req.History = append(req.History, domain.Turn{Role: domain.Role(turn.Role), Text: turn.Text})
	}
	if in.SchemaJSON != "" {
		if err := json.Unmarshal([]byte(in.SchemaJSON), &req.Schema); err != nil {
			return domain.Request{}, fmt.Errorf("decode schema: %w", err)
		}
	}
	return req, nil
}
