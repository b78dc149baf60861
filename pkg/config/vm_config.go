package config

import "errors"

// Defaults of the VM section.
const (
	DefaultMaxNestingDepth = 1024
	DefaultScriptCacheSize = 64
)

// VM contains execution limits.
type VM struct {
	// MaxNestingDepth limits the depth of nested instructions (blocks,
	// lambdas and loops bodies).
	MaxNestingDepth int `yaml:"MaxNestingDepth"`
	// ScriptCacheSize is the number of parsed scripts kept in memory.
	ScriptCacheSize int `yaml:"ScriptCacheSize"`
}

// Validate checks VM settings.
func (v VM) Validate() error {
	if v.MaxNestingDepth <= 0 {
		return errors.New("MaxNestingDepth must be positive")
	}
	if v.ScriptCacheSize <= 0 {
		return errors.New("ScriptCacheSize must be positive")
	}
	return nil
}
