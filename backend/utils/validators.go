package utils

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ValidateStruct прогоняет структуру через validator и возвращает
// field -> tag при ошибках, nil если все в порядке
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errors[fieldErr.Field()] = fieldErr.Tag()
	}
	return errors
}
