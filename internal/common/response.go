package common

// Response is the envelope wrapped around every JSON body the API returns.
type Response[T any] struct {
	Success   bool   `json:"success" example:"true"`
	Message   string `json:"message" example:"request processed successfully"`
	Data      T      `json:"data,omitempty"`
	ErrorCode string `json:"errorCode,omitempty" example:"AUTH_001"`
}

func Success[T any](data T) Response[T] {
	return Response[T]{Success: true, Message: DefaultSuccessMessage, Data: data}
}

func SuccessMessage[T any](data T, message string) Response[T] {
	return Response[T]{Success: true, Message: message, Data: data}
}

func ErrorResponse(code ErrorCode) Response[any] {
	return Response[any]{Success: false, Message: code.Message, ErrorCode: code.Code}
}

func ErrorMessageResponse(message, code string) Response[any] {
	return Response[any]{Success: false, Message: message, ErrorCode: code}
}
