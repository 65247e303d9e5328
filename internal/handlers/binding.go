package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// bindingMessage turns the first validator failure into a client message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return "All fields must be filled"
	case "email":
		return "Email not valid"
	case "min":
		if fe.Field() == "Password" {
			return "Password not strong enough"
		}
		return fe.Field() + " is too short"
	case "max":
		return fe.Field() + " is too long"
	default:
		return "Invalid " + fe.Field()
	}
}
