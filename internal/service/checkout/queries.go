package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirinyoku/fringe/internal/domain"
	"github.com/kirinyoku/fringe/internal/validation"
)

// QueryForm is the public contact form.
type QueryForm struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,loose_email"`
	Message string `json:"message" validate:"required,min=10"`
}

var queryMessages = validation.Messages{
	"name.required":     "Name is required",
	"name.min":          "Name must have at least 2 letters",
	"email.required":    "Email is required",
	"email.loose_email": "Invalid email",
	"message.required":  "Message is required",
	"message.min":       "Message must be at least 10 characters",
}

// SubmitQuery validates and forwards a contact form message.
//
// Returns:
//   - error: validation.FieldErrors if the form is invalid.
func (s *Service) SubmitQuery(ctx context.Context, form QueryForm) error {
	const op = "service.checkout.SubmitQuery"

	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Message = strings.TrimSpace(form.Message)

	if fe := validation.Struct(form, queryMessages); fe != nil {
		return fmt.Errorf("%s: %w", op, fe)
	}

	err := s.backend.SubmitUserQuery(ctx, domain.UserQuery{
		Name:    form.Name,
		Email:   form.Email,
		Message: form.Message,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
