package confloader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix prefixes every environment variable the loader reads.
const DefaultEnvPrefix = "COLLSTRESS_"

// Layer names a configuration source. Later layers override earlier ones.
type Layer string

const (
	LayerDefault Layer = "default"
	LayerFile    Layer = "file"
	LayerEnv     Layer = "env"
	LayerFlag    Layer = "flag"
)

// Loader merges configuration layers into one koanf tree and remembers
// which layer last set each key.
type Loader struct {
	k         *koanf.Koanf
	origin    map[string]Layer
	envPrefix string
	filePath  string
	defaults  map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix replaces DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.envPrefix = prefix }
}

// WithConfigFile sets the YAML file read by Load. An empty path skips the
// file layer.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.filePath = path }
}

// WithDefaults sets the lowest layer, keyed by dotted path.
func WithDefaults(defaults map[string]any) Option {
	return func(l *Loader) { l.defaults = defaults }
}

// NewLoader returns an empty loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		origin:    make(map[string]Layer),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FilePath returns the file given to WithConfigFile.
func (l *Loader) FilePath() string {
	return l.filePath
}

// Load merges defaults, file and environment, then unmarshals into target.
// Flags go on top with Override.
func (l *Loader) Load(target any) error {
	if len(l.defaults) > 0 {
		if err := l.merge(LayerDefault, mapProvider(l.defaults), nil); err != nil {
			return err
		}
	}
	if err := l.LoadFile(l.filePath); err != nil {
		return err
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	return l.Unmarshal(target)
}

// LoadFile merges a YAML file as the file layer.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.merge(LayerFile, file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadEnv merges prefixed environment variables. A double underscore
// separates levels and a single one stays part of the key, so
// COLLSTRESS_STRESS__KEY_SPACE sets stress.key_space. Variables without a
// level separator, such as COLLSTRESS_CONFIG, are not configuration keys.
func (l *Loader) LoadEnv() error {
	return l.merge(LayerEnv, env.Provider(l.envPrefix, ".", func(s string) string {
		return envKey(l.envPrefix, s)
	}), nil)
}

func envKey(prefix, name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, prefix))
	if !strings.Contains(name, "__") {
		return ""
	}
	return strings.ReplaceAll(name, "__", ".")
}

// Override merges dotted-key values as the flag layer and unmarshals the
// result into target again.
func (l *Loader) Override(values map[string]any, target any) error {
	if len(values) == 0 {
		return nil
	}
	if err := l.merge(LayerFlag, mapProvider(values), nil); err != nil {
		return err
	}
	return l.Unmarshal(target)
}

func (l *Loader) merge(layer Layer, p koanf.Provider, pa koanf.Parser) error {
	k := koanf.New(".")
	if err := k.Load(p, pa); err != nil {
		return fmt.Errorf("load %s layer: %w", layer, err)
	}
	for _, key := range k.Keys() {
		l.origin[key] = layer
	}
	return l.k.Merge(k)
}

// Unmarshal decodes the merged tree into target using koanf tags.
func (l *Loader) Unmarshal(target any) error {
	if err := l.k.Unmarshal("", target); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Get returns the merged value at key.
func (l *Loader) Get(key string) any {
	return l.k.Get(key)
}

// GetString returns the merged value at key as a string.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// Origin returns the layer that last set key, or "" when no layer did.
func (l *Loader) Origin(key string) Layer {
	return l.origin[key]
}

// Keys returns every leaf key in sorted order.
func (l *Loader) Keys() []string {
	keys := l.k.Keys()
	sort.Strings(keys)
	return keys
}
