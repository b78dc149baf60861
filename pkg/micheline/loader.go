package micheline

import (
	"bytes"
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru"
	"github.com/nspcc-dev/michelson-go/pkg/crypto/hash"
	"gopkg.in/yaml.v3"
)

// DefaultCacheSize is the number of decoded expressions kept by the Loader
// when no explicit size is given.
const DefaultCacheSize = 64

// Loader decodes expressions from JSON or YAML and keeps recently decoded
// ones in an LRU cache keyed by the content hash. Every call returns a fresh
// copy, so callers are free to modify the result.
type Loader struct {
	cache *lru.Cache
}

// NewLoader creates a Loader caching up to size expressions.
func NewLoader(size int) *Loader {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, _ := lru.New(size) // Never errors for positive size.
	return &Loader{cache: c}
}

// Parse decodes data which is either Micheline JSON (when it starts with
// '{' or '[') or its YAML form.
func (l *Loader) Parse(data []byte) (*Node, error) {
	var key [32]byte
	copy(key[:], hash.Blake2b256(data))
	if v, ok := l.cache.Get(key); ok {
		return v.(*Node).Copy(), nil
	}
	var (
		n   = new(Node)
		err error
	)
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) != 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		err = n.UnmarshalJSON(trimmed)
	} else {
		err = yaml.Unmarshal(data, n)
	}
	if err != nil {
		return nil, err
	}
	if n.Type == PrimNode && n.Prim == "" {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidJSON)
	}
	l.cache.Add(key, n)
	return n.Copy(), nil
}

// LoadFile reads and decodes the file at the given path.
func (l *Loader) LoadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	n, err := l.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return n, nil
}

// Len returns the number of cached expressions.
func (l *Loader) Len() int {
	return l.cache.Len()
}
