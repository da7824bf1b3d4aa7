package httperror

import "github.com/gofiber/fiber/v2"

// CommonError is the error object carried through usecase results and
// rendered by the delivery layers.
type CommonError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *CommonError) Error() string {
	return e.Message
}

func NewBadRequest() *CommonError {
	return &CommonError{Code: fiber.StatusBadRequest, Message: "bad request"}
}

func NewNotFound() *CommonError {
	return &CommonError{Code: fiber.StatusNotFound, Message: "not found"}
}

// NewConflict marks a state transition attempted on a record that already
// reached a terminal status. Expected outcome of racing operators, not a bug.
func NewConflict() *CommonError {
	return &CommonError{Code: fiber.StatusConflict, Message: "already processed"}
}

func NewUnauthorized() *CommonError {
	return &CommonError{Code: fiber.StatusUnauthorized, Message: "unauthorized"}
}

// NewUnprocessableEntity covers insufficient funds and insufficient profit.
func NewUnprocessableEntity() *CommonError {
	return &CommonError{Code: fiber.StatusUnprocessableEntity, Message: "unprocessable entity"}
}

// NewGone marks an expired conversation session. The flow must be restarted.
func NewGone() *CommonError {
	return &CommonError{Code: fiber.StatusGone, Message: "session expired"}
}

func NewInternalServer() *CommonError {
	return &CommonError{Code: fiber.StatusInternalServerError, Message: "internal server error"}
}
