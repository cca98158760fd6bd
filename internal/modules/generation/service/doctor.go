package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/generation/dto"
	genout "mindflow/internal/modules/generation/port/out"
)

type BackendConfig struct {
	Backend   domain.Backend
	Model     string
	HasAPIKey bool
	Plugin    string
}

// Doctor inspects the configured backend and every generator plugin manifest.
type Doctor struct {
	cfg   BackendConfig
	store genout.ManifestStore
	host  genout.Host
}

func NewDoctor(cfg BackendConfig, store genout.ManifestStore, host genout.Host) *Doctor {
	return &Doctor{cfg: cfg, store: store, host: host}
}

func (d *Doctor) Run(ctx context.Context) (dto.DoctorOutput, error) {
	out := dto.DoctorOutput{Backend: string(d.cfg.Backend), Model: d.cfg.Model}
	switch d.cfg.Backend {
	case domain.BackendGemini:
		if !d.cfg.HasAPIKey {
			out.Problems = append(out.Problems, "GEMINI_API_KEY is not set")
		}
	case domain.BackendPlugin:
		if d.cfg.Plugin == "" {
			out.Problems = append(out.Problems, "generator plugin name is not set")
		}
	case domain.BackendOffline:
	default:
		out.Problems = append(out.Problems, fmt.Sprintf("unknown generator backend %q", d.cfg.Backend))
	}

	if d.store != nil {
		manifests, err := d.store.Load(ctx)
		if err != nil {
			return dto.DoctorOutput{}, err
		}
		selectedFound := false
		for _, m := range manifests {
			check := d.checkManifest(ctx, m)
			if d.cfg.Backend == domain.BackendPlugin && m.Name == d.cfg.Plugin {
				check.Selected = true
				selectedFound = true
				if !check.LifecycleOK {
					out.Problems = append(out.Problems, fmt.Sprintf("selected plugin %s is not runnable", m.Name))
				}
			}
			out.Plugins = append(out.Plugins, check)
		}
		if d.cfg.Backend == domain.BackendPlugin && d.cfg.Plugin != "" && !selectedFound {
			out.Problems = append(out.Problems, fmt.Sprintf("plugin %q not found in manifest", d.cfg.Plugin))
		}
	}
	out.Ready = len(out.Problems) == 0
	return out, nil
}

func (d *Doctor) checkManifest(ctx context.Context, m domain.Manifest) domain.PluginCheck {
	result := domain.PluginCheck{Name: m.Name}
	if err := m.Validate(); err != nil {
		result.Error = err.Error()
		return result
	}
	binaryOK := fileExists(m.Binary)
	result.BinaryReachable = binaryOK
	checksumOK := false
	if binaryOK {
		checksumOK = checksumMatches(m.Binary, m.SHA256) == nil
	}
	result.ChecksumValid = checksumOK
	if binaryOK && checksumOK && m.Enabled && d.host != nil {
		if err := d.host.CheckLifecycle(ctx, m); err != nil {
			result.Error = err.Error()
		} else {
			result.LifecycleOK = true
		}
	}
	if !binaryOK {
		result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
	}
	if binaryOK && !checksumOK {
		result.Error = "checksum mismatch"
	}
	if binaryOK && checksumOK && !m.Enabled {
		result.Error = "disabled"
	}
	return result
}

// SelectPlugin returns the named manifest once it is valid, enabled,
// capable of every operation kind and matches its checksum.
func SelectPlugin(ctx context.Context, store genout.ManifestStore, name string) (domain.Manifest, error) {
	manifests, err := store.Load(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	seen := map[string]struct{}{}
	for _, m := range manifests {
		if err := m.Validate(); err != nil {
			return domain.Manifest{}, err
		}
		if _, ok := seen[m.Name]; ok {
			return domain.Manifest{}, fmt.Errorf("duplicate generator plugin name: %s", m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	for _, m := range manifests {
		if m.Name != name {
			continue
		}
		if !m.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, name)
		}
		for _, capability := range []domain.Capability{domain.CapabilityStructured, domain.CapabilityText} {
			if !m.HasCapability(capability) {
				return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCapabilityMissing, capability)
			}
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return m, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: generator plugin %q not found", domain.ErrBackendUnavailable, name)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: binary does not exist: %s", domain.ErrBackendUnavailable, path)
		}
		return fmt.Errorf("read generator plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	actual := hex.EncodeToString(hash[:])
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
