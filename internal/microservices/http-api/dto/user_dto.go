package dto

import (
	"commentshub/internal/microservices/http-api/models"
)

// UserResponse is the public view of an account; credentials are never rendered.
type UserResponse struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FromModelToUserResponse converts a User model to UserResponse DTO
func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func FromModelsToUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = FromModelToUserResponse(&users[i])
	}
	return out
}

// UserWriteDTO holds the accepted fields of a signup or update payload.
// A nil field was absent from the payload.
type UserWriteDTO struct {
	Email     *string
	Username  *string
	FirstName *string
	LastName  *string
	Password  *string
	Confirm   *string
}

// BindUserWrite runs the per-field checks. partial relaxes required fields.
// The returned ValidationError is never nil; callers add cross-field failures to it.
func BindUserWrite(p Payload, partial bool) (*UserWriteDTO, *ValidationError) {
	errs := NewValidationError()
	d := &UserWriteDTO{
		Email:     p.readString("email", stringRule{required: true, maxLength: 254, format: "email"}, partial, errs),
		Username:  p.readString("username", stringRule{required: true, maxLength: 30}, partial, errs),
		FirstName: p.readString("first_name", stringRule{allowBlank: true, maxLength: 150}, partial, errs),
		LastName:  p.readString("last_name", stringRule{allowBlank: true, maxLength: 150}, partial, errs),
		Password:  p.readString("password", stringRule{required: true, maxLength: 30}, partial, errs),
		Confirm:   p.readString("confirm", stringRule{required: true, maxLength: 30}, partial, errs),
	}
	return d, errs
}

// PasswordsMatch treats two absent values as matching.
func (d *UserWriteDTO) PasswordsMatch() bool {
	if d.Password == nil || d.Confirm == nil {
		return d.Password == nil && d.Confirm == nil
	}
	return *d.Password == *d.Confirm
}

// ApplyTo copies present fields onto u. passwordHash replaces the stored
// credential when non-empty.
func (d *UserWriteDTO) ApplyTo(u *models.User, passwordHash string) {
	if d.Email != nil {
		u.Email = *d.Email
	}
	if d.Username != nil {
		u.Username = *d.Username
	}
	if d.FirstName != nil {
		u.FirstName = *d.FirstName
	}
	if d.LastName != nil {
		u.LastName = *d.LastName
	}
	if passwordHash != "" {
		u.Password = passwordHash
	}
}
