package apidoc

import "errors"

// Sentinel errors for classification by callers.
var (
	// ErrPackageNotFound indicates the root package could not be resolved.
	// This is the only fatal condition in the generation pipeline.
	ErrPackageNotFound = errors.New("package not found")

	// ErrModuleUnloadable indicates no source file of a discovered module
	// could be parsed. Callers skip the module and continue.
	ErrModuleUnloadable = errors.New("module could not be loaded")

	// ErrWalkFailed indicates the package tree walk itself failed.
	ErrWalkFailed = errors.New("package tree walk failed")
)
