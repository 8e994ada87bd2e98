// Package prelude bundles the default unit and prefix definitions that every
// qcalc session starts from.
package prelude

import (
	_ "embed"
	"fmt"
	"sync"

	"qcalc/app/lang"
)

// Source is the text of the bundled definitions.
//
//go:embed prelude.qcalc
var Source string

var defaultRegistry = sync.OnceValues(func() (*lang.Registry, error) {
	return Load(Source)
})

// Default returns a registry loaded with the bundled definitions. It is
// built once and shared: callers must treat it as read-only and Clone it
// before running definition statements.
func Default() (*lang.Registry, error) {
	return defaultRegistry()
}

// NewRegistry returns a fresh, privately owned registry loaded with the
// bundled definitions.
func NewRegistry() (*lang.Registry, error) {
	reg, err := Default()
	if err != nil {
		return nil, err
	}
	return reg.Clone(), nil
}

// Load builds a registry from prelude source followed by any extra
// definition statements.
func Load(src string, extra ...string) (*lang.Registry, error) {
	reg := lang.NewRegistry()
	if err := lang.LoadPrelude(reg, src); err != nil {
		return nil, fmt.Errorf("loading prelude: %w", err)
	}
	for _, def := range extra {
		if _, err := lang.EvalLine(def, reg); err != nil {
			return nil, fmt.Errorf("definition %q: %w", def, err)
		}
	}
	return reg, nil
}
