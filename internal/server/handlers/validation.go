package handlers

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nebsam/opsdash/internal/domain/models"
)

// RegisterValidators installs the "objectid" and "day" binding tags on gin's
// validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	if err := v.RegisterValidation("objectid", validateObjectID); err != nil {
		return err
	}
	return v.RegisterValidation("day", validateDay)
}

func validateObjectID(fl validator.FieldLevel) bool {
	_, err := models.ParseObjectID(fl.Field().String())
	return err == nil
}

func validateDay(fl validator.FieldLevel) bool {
	_, err := models.ParseDay(fl.Field().String())
	return err == nil
}
