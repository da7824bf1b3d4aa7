package model

// Event is anything publishable to kafka, keyed by its id.
type Event interface {
	GetId() string
}
