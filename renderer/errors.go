package renderer

import "errors"

const (
	StageLink     = "link"
	StageValidate = "validate"
)

var ErrAlreadyRunning = errors.New("renderer already running")

// BuildError is a shader compile, program link or program validate failure.
// Stage is "Vertex" or "Fragment" for compile errors, otherwise StageLink or
// StageValidate. Log holds the driver's diagnostic output.
type BuildError struct {
	Stage string
	Log   string
}

func (e *BuildError) Error() string {
	switch e.Stage {
	case StageLink, StageValidate:
		return "Program " + e.Stage + " error: " + e.Log
	default:
		return e.Stage + " shader compile error: " + e.Log
	}
}
