package theme

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ErrThemeNotFound is returned when a selector has no manifest for a name.
var ErrThemeNotFound = errors.New("theme: theme not found")

// Fallbacks returns the registry's template roles as a partials map suitable
// for ResolveSelection.
func (r Registry) Fallbacks() map[string]string {
	out := make(map[string]string, len(r.Templates))
	for role, tpl := range r.Templates {
		out[role] = string(tpl)
	}
	return out
}

// WithRendererConfig retargets template roles to the partials in cfg.
func (r Registry) WithRendererConfig(cfg *gotheme.RendererConfig) Registry {
	if cfg == nil || len(cfg.Partials) == 0 {
		return r
	}
	partials := make(map[string]Template, len(cfg.Partials))
	for role, name := range cfg.Partials {
		if strings.TrimSpace(name) != "" {
			partials[role] = Template(name)
		}
	}
	return BuildRegistry(r, Registry{Templates: partials})
}

// ResolveSelection flattens a go-theme selection into renderer configuration.
// Partials layer fallbacks, manifest templates and variant templates; tokens
// layer manifest then variant values and are mirrored as `--token` CSS
// variables. Asset keys resolve against the manifest prefix, variant files
// overriding manifest files. A nil selection yields nil.
func ResolveSelection(selection *gotheme.Selection, fallbacks map[string]string) *gotheme.RendererConfig {
	if selection == nil {
		return nil
	}

	partials := Merge(fallbacks)
	tokens := map[string]string{}
	files := map[string]string{}
	prefix := ""

	if manifest := selection.Manifest; manifest != nil {
		partials = Merge(partials, manifest.Templates)
		tokens = Merge(tokens, manifest.Tokens)
		files = Merge(files, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if variant, ok := manifest.Variants[selection.Variant]; ok {
			partials = Merge(partials, variant.Templates)
			tokens = Merge(tokens, variant.Tokens)
			files = Merge(files, variant.Assets.Files)
			if variant.Assets.Prefix != "" {
				prefix = variant.Assets.Prefix
			}
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &gotheme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: assetResolver(prefix, files),
	}
}

func assetResolver(prefix string, files map[string]string) func(string) string {
	return func(key string) string {
		key = strings.TrimSpace(key)
		if key == "" {
			return ""
		}
		file, ok := files[key]
		if !ok {
			return ""
		}
		if strings.HasPrefix(file, "/") || strings.Contains(file, "://") || prefix == "" {
			return file
		}
		if strings.Contains(prefix, "://") {
			return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
		}
		return path.Join(prefix, file)
	}
}

// Select asks selector for name/variant and resolves the result.
func Select(selector gotheme.ThemeSelector, name, variant string, fallbacks map[string]string) (*gotheme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("theme: selector is required")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("theme: select %q/%q: %w", name, variant, err)
	}
	return ResolveSelection(selection, fallbacks), nil
}

// CSSVarsStyle renders CSS variables as a sorted `:root` block.
func CSSVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// ManifestSelector is a ThemeSelector over manifests held in memory, such as
// those read from YAML files by the CLI. Manifests are also registered with a
// go-theme registry so invalid manifests are rejected up front.
type ManifestSelector struct {
	manifests      map[string]*gotheme.Manifest
	registry       interface{ Register(*gotheme.Manifest) error }
	defaultTheme   string
	defaultVariant string
}

var _ gotheme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector creates an empty selector with defaults used when
// Select receives blank arguments.
func NewManifestSelector(defaultTheme, defaultVariant string) *ManifestSelector {
	return &ManifestSelector{
		manifests:      make(map[string]*gotheme.Manifest),
		registry:       gotheme.NewRegistry(),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
}

// Add registers manifest. The first manifest added becomes the default theme
// when none was configured.
func (s *ManifestSelector) Add(manifest *gotheme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("theme: manifest name is required")
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("theme: register %q: %w", manifest.Name, err)
	}
	s.manifests[manifest.Name] = manifest
	if s.defaultTheme == "" {
		s.defaultTheme = manifest.Name
	}
	return nil
}

// Select implements gotheme.ThemeSelector.
func (s *ManifestSelector) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	if name = strings.TrimSpace(name); name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant = strings.TrimSpace(variant); variant == "" {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("theme: %q has no variant %q", name, variant)
		}
	}
	return &gotheme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

type manifestFile struct {
	Name      string                 `yaml:"name"`
	Version   string                 `yaml:"version"`
	Tokens    map[string]string      `yaml:"tokens"`
	Templates map[string]string      `yaml:"templates"`
	Assets    assetsFile             `yaml:"assets"`
	Variants  map[string]variantFile `yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsFile        `yaml:"assets"`
}

// ParseManifest decodes a YAML (or JSON) theme manifest.
func ParseManifest(data []byte) (*gotheme.Manifest, error) {
	var raw manifestFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("theme: decode manifest: %w", err)
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, errors.New("theme: manifest name is required")
	}
	manifest := &gotheme.Manifest{
		Name:      raw.Name,
		Version:   raw.Version,
		Tokens:    raw.Tokens,
		Templates: raw.Templates,
		Assets:    gotheme.Assets{Prefix: raw.Assets.Prefix, Files: raw.Assets.Files},
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]gotheme.Variant, len(raw.Variants))
		for name, v := range raw.Variants {
			manifest.Variants[name] = gotheme.Variant{
				Tokens:    v.Tokens,
				Templates: v.Templates,
				Assets:    gotheme.Assets{Prefix: v.Assets.Prefix, Files: v.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(filename string) (*gotheme.Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("theme: read manifest: %w", err)
	}
	return ParseManifest(data)
}
