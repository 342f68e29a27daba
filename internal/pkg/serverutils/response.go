package serverutils

type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Response struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

func ErrorResponse(code int, message string) Response {
	return Response{
		Code:    code,
		Message: message,
	}
}

func ValidationErrorResponse(details []ErrorDetail) Response {
	return Response{
		Code:    400,
		Message: ErrInvalidInput.Error(),
		Errors:  details,
	}
}
