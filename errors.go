package rowan

import "fmt"

// ConfigurationError reports bad or missing configuration: a malformed JSON
// document, a dangling name reference, or an ill-formed guard/transition.
// Always fatal; prototype loading aborts rather than partially activating.
type ConfigurationError struct {
	File   string // source document, when known
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.File, e.Detail)
	}
	return "configuration error: " + e.Detail
}

func configErrorf(file, format string, args ...any) error {
	return &ConfigurationError{File: file, Detail: fmt.Sprintf(format, args...)}
}

// UnsupportedSpecError reports an unknown discriminator value in a spec,
// condition, or guard. Always fatal: an unknown variant is an authoring bug
// that must surface immediately, never a silent skip.
type UnsupportedSpecError struct {
	Kind string // which discriminator field
	Type string // the offending value
}

func (e *UnsupportedSpecError) Error() string {
	return fmt.Sprintf("unsupported %s type %q", e.Kind, e.Type)
}

// AssetNotFoundError reports a required asset missing from a bundle after
// all fallback locations have been searched.
type AssetNotFoundError struct {
	Name    string
	Tried   []string
	Wrapped error
}

func (e *AssetNotFoundError) Error() string {
	if len(e.Tried) > 0 {
		return fmt.Sprintf("asset %q not found (tried %v)", e.Name, e.Tried)
	}
	return fmt.Sprintf("asset %q not found", e.Name)
}

func (e *AssetNotFoundError) Unwrap() error {
	return e.Wrapped
}

// InteractionUsageError reports a violation of the pointer input contract
// (duplicate or stale pointer id). It signals a caller bug, not a data
// problem.
type InteractionUsageError struct {
	PointerID int
	Detail    string
}

func (e *InteractionUsageError) Error() string {
	return fmt.Sprintf("pointer %d: %s", e.PointerID, e.Detail)
}
