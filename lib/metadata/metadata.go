// Package metadata provides the immutable build-time metadata source: build
// number, version and copyright. The values come from a manifest packaged
// into the binary, optionally replaced by an external manifest file, and
// finally overridden by link-time variables.
package metadata

import (
	_ "embed"
	"os"

	"github.com/go-i2p/logger"
	"github.com/go-i2p/settingsync/lib/settings"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

var log = logger.GetGoI2PLogger()

//go:embed manifest.yaml
var embeddedManifest []byte

// Version and Build override the manifest when set with -ldflags -X.
var (
	Version string
	Build   string
)

// Manifest is a read-only map from raw Info key names to strings.
type Manifest struct {
	values map[string]string
}

// Embedded returns the manifest packaged into the binary.
func Embedded() (*Manifest, error) {
	return Parse(embeddedManifest)
}

// Load reads a manifest file. Unlike store files, a manifest is required to
// exist once configured.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Wrapf(err, "failed to read metadata manifest %s", path)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, oops.Wrapf(err, "manifest %s", path)
	}
	log.WithField("path", path).Debug("loaded metadata manifest")
	return m, nil
}

// Parse decodes manifest YAML. Non-string scalars are kept in their YAML
// text form, so `IP_APP_BUILD: 12` reads as "12".
func Parse(data []byte) (*Manifest, error) {
	raw := make(map[string]yaml.Node)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, oops.Errorf("invalid metadata manifest: %v", err)
	}
	values := make(map[string]string, len(raw))
	for k, node := range raw {
		if node.Kind != yaml.ScalarNode {
			log.WithField("key", k).Warn("ignoring non-scalar manifest entry")
			continue
		}
		values[k] = node.Value
	}
	return &Manifest{values: values}, nil
}

// String implements settings.MetadataSource. Only the static keys (build,
// version, copyright) are answered; empty values report absent.
func (m *Manifest) String(key settings.InfoKey) (string, bool) {
	if _, static := key.Mirror(); !static {
		return "", false
	}
	if v := linkTimeOverride(key); v != "" {
		return v, true
	}
	v, ok := m.values[key.Name()]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func linkTimeOverride(key settings.InfoKey) string {
	switch key {
	case settings.InfoVersion:
		return Version
	case settings.InfoBuild:
		return Build
	default:
		return ""
	}
}

var _ settings.MetadataSource = (*Manifest)(nil)
