package utils

// Result carries usecase output: either Data or an http-error object.
type Result struct {
	Data  interface{}
	Error interface{}
}
