package server

import (
	"errors"
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"

	"gamehub/internal/messages"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const maxPasswdLength = 128

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("passwd", func(fl validator.FieldLevel) bool {
			return validatePasswd(fl.Field().String()) == nil
		})
		_ = engine.RegisterValidation("content", func(fl validator.FieldLevel) bool {
			_, err := messages.ValidateContent(fl.Field().String())
			return err == nil
		})
	})
}

// validatePasswd accepts any printable password up to maxPasswdLength
// characters. Passwords are compared verbatim, so nothing is trimmed.
func validatePasswd(passwd string) error {
	if passwd == "" {
		return errors.New("passwd is required")
	}
	if utf8.RuneCountInString(passwd) > maxPasswdLength {
		return fmt.Errorf("passwd must be %d characters or fewer", maxPasswdLength)
	}
	for _, r := range passwd {
		if !unicode.IsPrint(r) {
			return errors.New("passwd contains unsupported characters")
		}
	}
	return nil
}
