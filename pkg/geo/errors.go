package geo

import "fmt"

// GeometryError reports a malformed polygon or a degenerate sampling input.
// Generators treat it as recoverable and retry with perturbed parameters.
type GeometryError struct {
	Op     string
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry: %s: %s", e.Op, e.Reason)
}
