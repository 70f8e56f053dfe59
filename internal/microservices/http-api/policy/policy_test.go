package policy

import (
	"testing"

	"commentshub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
)

var allOps = []Operation{OpList, OpRetrieve, OpCreate, OpUpdate, OpPartialUpdate, OpDestroy}

func TestUserPolicy_HasPermission(t *testing.T) {
	p := UserPolicy{}

	for _, op := range allOps {
		if op == OpCreate {
			assert.NoError(t, p.HasPermission(nil, op), op)
			continue
		}
		assert.ErrorIs(t, p.HasPermission(nil, op), ErrNotAuthenticated, op)
		assert.NoError(t, p.HasPermission(&models.User{ID: 1}, op), op)
	}
}

func TestUserPolicy_HasObjectPermission(t *testing.T) {
	p := UserPolicy{}
	me := &models.User{ID: 1}
	other := &models.User{ID: 2}

	assert.NoError(t, p.HasObjectPermission(me, OpRetrieve, other))
	assert.NoError(t, p.HasObjectPermission(me, OpUpdate, me))
	assert.NoError(t, p.HasObjectPermission(me, OpDestroy, me))
	assert.ErrorIs(t, p.HasObjectPermission(me, OpUpdate, other), ErrPermissionDenied)
	assert.ErrorIs(t, p.HasObjectPermission(me, OpPartialUpdate, other), ErrPermissionDenied)
	assert.ErrorIs(t, p.HasObjectPermission(me, OpDestroy, other), ErrPermissionDenied)
	assert.ErrorIs(t, p.HasObjectPermission(nil, OpRetrieve, other), ErrNotAuthenticated)
}

func TestCommentPolicy(t *testing.T) {
	p := CommentPolicy{}
	me := &models.User{ID: 1}
	mine := &models.Comment{ID: 1, UserID: 1}
	theirs := &models.Comment{ID: 2, UserID: 2}

	for _, op := range allOps {
		assert.ErrorIs(t, p.HasPermission(nil, op), ErrNotAuthenticated, op)
		assert.NoError(t, p.HasPermission(me, op), op)
	}

	assert.NoError(t, p.HasObjectPermission(me, OpList, theirs))
	assert.NoError(t, p.HasObjectPermission(me, OpRetrieve, theirs))
	assert.NoError(t, p.HasObjectPermission(me, OpUpdate, mine))
	assert.ErrorIs(t, p.HasObjectPermission(me, OpUpdate, theirs), ErrPermissionDenied)
	assert.ErrorIs(t, p.HasObjectPermission(me, OpDestroy, theirs), ErrPermissionDenied)
}

func TestNotificationPolicy(t *testing.T) {
	p := NotificationPolicy{}
	me := &models.User{ID: 1}

	assert.ErrorIs(t, p.HasPermission(nil, OpList), ErrNotAuthenticated)
	assert.NoError(t, p.HasObjectPermission(me, OpUpdate, &models.Notification{UserID: 1}))
	assert.ErrorIs(t, p.HasObjectPermission(me, OpRetrieve, &models.Notification{UserID: 2}), ErrPermissionDenied)
}

func TestOperationSafe(t *testing.T) {
	assert.True(t, OpList.Safe())
	assert.True(t, OpRetrieve.Safe())
	assert.False(t, OpCreate.Safe())
	assert.False(t, OpDestroy.Safe())
}
