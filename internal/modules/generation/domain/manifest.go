package domain

import (
	"fmt"
	"regexp"
)

type Capability string

const (
	CapabilityStructured Capability = "structured"
	CapabilityText       Capability = "text"
	CapabilityChat       Capability = "chat"
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Manifest describes an external generator binary. The binary is only
// launched when its sha256 matches.
type Manifest struct {
	Name         string       `json:"name"`
	Version      string       `json:"version"`
	Binary       string       `json:"binary"`
	SHA256       string       `json:"sha256"`
	Enabled      bool         `json:"enabled"`
	Capabilities []Capability `json:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("generator plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("generator plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("generator plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("generator plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("generator plugin capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, capability := range m.Capabilities {
		if err := capability.Validate(); err != nil {
			return err
		}
		if _, ok := seen[capability]; ok {
			return fmt.Errorf("duplicate capability: %s", capability)
		}
		seen[capability] = struct{}{}
	}
	return nil
}

func (c Capability) Validate() error {
	switch c {
	case CapabilityStructured, CapabilityText, CapabilityChat:
		return nil
	default:
		return fmt.Errorf("unknown capability: %s", c)
	}
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// Supports reports whether the plugin declares the capability an operation
// needs.
func (m Manifest) Supports(op Operation) bool {
	switch {
	case op == OpChat || op == OpLiveInterview:
		return m.HasCapability(CapabilityChat)
	case op.Structured():
		return m.HasCapability(CapabilityStructured)
	default:
		return m.HasCapability(CapabilityText)
	}
}

type Metadata struct {
	Name         string
	Version      string
	Capabilities []Capability
}

type Backend string

const (
	BackendGemini  Backend = "gemini"
	BackendPlugin  Backend = "plugin"
	BackendOffline Backend = "offline"
)

// PluginCheck is the doctor report for one manifest entry.
type PluginCheck struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Selected        bool
	Error           string
}
