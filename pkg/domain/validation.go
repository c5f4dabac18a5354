package domain

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func fieldValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}
		validate = v
	})
	return validate
}

// Rule описывает проверки одного поля агрегата тегами go-playground/validator.
type Rule[F ~string] struct {
	Field F
	Value any
	Tags  []string
}

// Check применяет правила к полям only (пустой список - ко всем полям).
// Каждый тег проверяется отдельно, поэтому в результат попадают все нарушения поля.
func Check[F ~string](rules []Rule[F], only ...F) Notification {
	var n Notification
	for _, rule := range rules {
		if len(only) > 0 && !slices.Contains(only, rule.Field) {
			continue
		}
		for _, tag := range rule.Tags {
			if err := fieldValidator().Var(rule.Value, tag); err != nil {
				n.AddError(string(rule.Field), ruleMessage(tag))
			}
		}
	}
	return n
}

func ruleMessage(tag string) string {
	name, param, _ := strings.Cut(tag, "=")
	switch name {
	case "required", "notblank":
		return "must not be blank"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", param)
	case "max":
		return fmt.Sprintf("must be at most %s characters long", param)
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", param)
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", param)
	case "uuid4":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed on the %q rule", tag)
	}
}
