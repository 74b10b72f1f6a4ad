package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Человекочитаемые сообщения для ошибок валидации тела запроса.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	// в ответ попадает только первая ошибка
	e := verrs[0]
	switch e.Field() {
	case "Name":
		return "Name is required"
	case "Description":
		return "Description is required"
	case "Status":
		return "Status is required"
	case "UserID":
		return "User ID must be a positive integer"
	default:
		return "Invalid request body"
	}
}
