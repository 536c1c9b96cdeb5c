// internal/handlers/validation.go
package handlers

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z]{2,}$`)
	emailRe    = regexp.MustCompile(`\S+@\S+\.\S+`)
	// 3-8 латинских букв/цифр; отдельно проверяется наличие буквы и цифры (в RE2 нет lookahead)
	passwordRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,8}$`)
	hasLetter  = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit   = regexp.MustCompile(`[0-9]`)
	sectionRe  = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)
)

const (
	msgAllFieldsRequired = "All fields are required"
	msgInvalidUsername   = "Username must contain only letters and at least 2 letters"
	msgInvalidEmail      = "Invalid email format"
	msgInvalidPassword   = "Password must be 3-8 characters long, contain at least one number and one letter"
	msgInvalidRole       = "Role must be 0 or 1"
)

func ValidUsername(s string) bool { return usernameRe.MatchString(s) }
func ValidEmail(s string) bool    { return emailRe.MatchString(s) }

func ValidPassword(s string) bool {
	return passwordRe.MatchString(s) && hasLetter.MatchString(s) && hasDigit.MatchString(s)
}

func validSection(s string) bool { return sectionRe.MatchString(s) }

var registerOnce sync.Once

// RegisterValidators добавляет теги username, loose_email, password в валидатор gin
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		rules := map[string]func(string) bool{
			"username":    ValidUsername,
			"loose_email": ValidEmail,
			"password":    ValidPassword,
		}
		for tag, fn := range rules {
			fn := fn
			if err = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				return fn(fl.Field().String())
			}); err != nil {
				return
			}
		}
	})
	return err
}

// validationMessage: сначала обязательность полей, потом первое нарушение формата
func validationMessage(errs validator.ValidationErrors) string {
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return msgAllFieldsRequired
		}
	}
	for _, fe := range errs {
		switch fe.Tag() {
		case "username":
			return msgInvalidUsername
		case "loose_email":
			return msgInvalidEmail
		case "password":
			return msgInvalidPassword
		case "oneof":
			if fe.Field() == "Role" {
				return msgInvalidRole
			}
		}
	}
	return "Invalid " + errs[0].Field()
}
