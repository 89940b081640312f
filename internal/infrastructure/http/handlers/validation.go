package handlers

import (
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// supportedDiets mirrors the diet filters the recipe catalog accepts.
// Anything else would be forwarded verbatim and silently ignored
// upstream, so it is rejected at the API boundary instead.
var supportedDiets = map[string]bool{
	"gluten free":      true,
	"ketogenic":        true,
	"vegetarian":       true,
	"lacto-vegetarian": true,
	"ovo-vegetarian":   true,
	"vegan":            true,
	"pescetarian":      true,
	"paleo":            true,
	"primal":           true,
	"low fodmap":       true,
	"whole30":          true,
}

// RegisterValidations installs the custom binding rules on gin's
// validator engine. Safe to call once at startup.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("diet", validateDiet)
}

func validateDiet(fl validator.FieldLevel) bool {
	return supportedDiets[strings.ToLower(strings.TrimSpace(fl.Field().String()))]
}
