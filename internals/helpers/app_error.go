// file: internals/helpers/app_error.go
package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

/* ===============================================
   AppError — error ber-kode untuk business rule
   ===============================================
   Service layer mengembalikan *AppError supaya controller bisa merender
   error_code + konteks angka (due/paid/remaining) tanpa parsing string.
*/

type AppError struct {
	Status  int
	Code    string
	Message string
	Data    any
}

func (e *AppError) Error() string { return e.Message }

func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

func NewAppErrorWithData(status int, code, message string, data any) *AppError {
	return &AppError{Status: status, Code: code, Message: message, Data: data}
}

// AsAppError membongkar err (termasuk yang sudah di-wrap) menjadi *AppError.
func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// JsonFromError merender error hasil service/Transaction menjadi envelope JSON:
// *AppError → error_code + data, *fiber.Error → status+message, selain itu 500.
func JsonFromError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	if ae, ok := AsAppError(err); ok {
		return JsonErrorCode(c, ae.Status, ae.Code, ae.Message, ae.Data)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
