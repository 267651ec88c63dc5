package models

// APIServer serves the tool-invocation HTTP surface.
type APIServer interface {
	Start()
	Shutdown() error
}
