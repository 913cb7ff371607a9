package errs

import (
	"fmt"
	"net/http"
)

var (
	Unauthorized = NewUnauthorizedError()
)

func Malformed(payloadName string) *ApiErr {
	return NewBadRequestError(payloadName + " malformed")
}

func BadRequest(message string) *ApiErr {
	return NewBadRequestError(message)
}

func InvalidID(name string) *ApiErr {
	return NewBadRequestErrorWithField(fmt.Sprintf("invalid %s", name), name)
}

func NewMaxBodySizeExceededError(maxSize int64) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        tagged{fmt.Sprintf("File size exceeds the maximum limit of %d MB", maxSize>>20), ErrBadRequest},
		Field:      "image",
	}
}

func NewTooManyRequestsError() *ApiErr {
	return NewApiErr(http.StatusTooManyRequests, "too many requests, please wait")
}
