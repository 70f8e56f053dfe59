// Package policy decides whether a caller may perform an operation, first for
// the request as a whole and then against a resolved target.
package policy

import (
	"errors"

	"commentshub/internal/microservices/http-api/models"
)

var (
	ErrNotAuthenticated = errors.New("authentication credentials were not provided")
	ErrPermissionDenied = errors.New("permission denied")
)

type Operation string

const (
	OpList          Operation = "list"
	OpRetrieve      Operation = "retrieve"
	OpCreate        Operation = "create"
	OpUpdate        Operation = "update"
	OpPartialUpdate Operation = "partial_update"
	OpDestroy       Operation = "destroy"
)

// Safe reports whether the operation only reads.
func (o Operation) Safe() bool {
	return o == OpList || o == OpRetrieve
}

// Caller is the resolved identity of a request; nil means anonymous.
type Caller = *models.User

// Authorizer is implemented once per resource type.
type Authorizer interface {
	HasPermission(caller Caller, op Operation) error
	HasObjectPermission(caller Caller, op Operation, target any) error
}

// UserPolicy lets anyone sign up and only the account itself mutate it.
type UserPolicy struct{}

func (UserPolicy) HasPermission(caller Caller, op Operation) error {
	if op == OpCreate || caller != nil {
		return nil
	}
	return ErrNotAuthenticated
}

func (UserPolicy) HasObjectPermission(caller Caller, op Operation, target any) error {
	if caller == nil {
		return ErrNotAuthenticated
	}
	if op.Safe() {
		return nil
	}
	if u, ok := target.(*models.User); ok && u.ID == caller.ID {
		return nil
	}
	return ErrPermissionDenied
}

// CommentPolicy requires authentication and lets only the author mutate.
type CommentPolicy struct{}

func (CommentPolicy) HasPermission(caller Caller, _ Operation) error {
	if caller == nil {
		return ErrNotAuthenticated
	}
	return nil
}

func (CommentPolicy) HasObjectPermission(caller Caller, op Operation, target any) error {
	if caller == nil {
		return ErrNotAuthenticated
	}
	if op.Safe() {
		return nil
	}
	if c, ok := target.(*models.Comment); ok && c.UserID == caller.ID {
		return nil
	}
	return ErrPermissionDenied
}

// NotificationPolicy restricts every operation to the recipient.
type NotificationPolicy struct{}

func (NotificationPolicy) HasPermission(caller Caller, _ Operation) error {
	if caller == nil {
		return ErrNotAuthenticated
	}
	return nil
}

func (NotificationPolicy) HasObjectPermission(caller Caller, _ Operation, target any) error {
	if caller == nil {
		return ErrNotAuthenticated
	}
	if n, ok := target.(*models.Notification); ok && n.UserID == caller.ID {
		return nil
	}
	return ErrPermissionDenied
}
