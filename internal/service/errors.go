package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-inventory-audit/pkg/apperror"
	"go-inventory-audit/pkg/validator"
)

var (
	ErrInvalidCredentials = apperror.Unauthenticated("INVALID_CREDENTIALS", "incorrect email or password")
	ErrUnauthenticated    = apperror.Unauthenticated("UNAUTHENTICATED", "could not validate credentials")
	ErrEmailExists        = apperror.Conflict("DUPLICATE_EMAIL", "email already registered")
	ErrUserNotFound       = apperror.NotFound("USER_NOT_FOUND", "user not found")
	ErrProductNotFound    = apperror.NotFound("PRODUCT_NOT_FOUND", "product not found")
	ErrLogNotFound        = apperror.NotFound("LOG_NOT_FOUND", "log entry not found")
	ErrValidation         = apperror.Validation("VALIDATION_FAILED", "validation error")
	ErrInvalidPrice       = apperror.Validation("INVALID_PRICE", "price must be greater than 0")
	ErrInvalidStock       = apperror.Validation("INVALID_STOCK", "stock must not be negative")
	ErrInvalidAction      = apperror.Validation("INVALID_ACTION", "log action must not be empty")
	ErrPasswordTooLong    = apperror.Validation("PASSWORD_TOO_LONG", "password must be at most 72 bytes")
)

// validateRequest runs struct validation and reports failures as ErrValidation with field details.
func validateRequest(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return ErrValidation.WithDetails(errs)
	}
	return nil
}

// hashError classifies a password hashing failure. bcrypt limits input to 72 bytes, which a
// 72-character password with multi-byte runes can exceed.
func hashError(err error) error {
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong.Wrap(err)
	}
	return apperror.Internal(fmt.Errorf("hash password: %w", err))
}
