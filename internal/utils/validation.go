package utils

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rajivgeraev/numisma-api/internal/apperr"
	"github.com/rajivgeraev/numisma-api/internal/models"
)

// NewValidator возвращает валидатор, который называет поля по JSON-тегам
// и знает перечисления каталога
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("piece_type", func(fl validator.FieldLevel) bool {
		return models.PieceType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("conservation", func(fl validator.FieldLevel) bool {
		return models.ConservationState(fl.Field().String()).Valid()
	})
	return v
}

// ValidateStruct проверяет структуру и переводит первую ошибку в apperr.ValidationError
func ValidateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.Validation(fe.Field(), "es obligatorio")
	case "nefield":
		return apperr.Validation(fe.Field(), "no puede ser la misma pieza que se ofrece")
	case "email":
		return apperr.Validation(fe.Field(), "correo electrónico inválido")
	case "max":
		return apperr.Validation(fe.Field(), "demasiado largo (máximo "+fe.Param()+")")
	case "gte", "lte", "min":
		return apperr.Validation(fe.Field(), "fuera de rango")
	case "piece_type":
		return apperr.Validation(fe.Field(), "debe ser 'Moneda' o 'Billete'")
	case "conservation":
		return apperr.Validation(fe.Field(), "estado de conservación inválido")
	}
	return apperr.Validation(fe.Field(), "valor inválido")
}
