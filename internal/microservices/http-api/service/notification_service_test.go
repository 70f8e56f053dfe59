package service

import (
	"context"
	"testing"

	"commentshub/internal/microservices/http-api/models"
	"commentshub/internal/microservices/http-api/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_ReplyFlow(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	svc := NewNotificationService(repos.Notifications)

	owner := &models.User{Username: "a", Email: "a@x.com"}
	replier := &models.User{Username: "b", Email: "b@x.com"}
	require.NoError(t, repos.Users.Create(ctx, owner))
	require.NoError(t, repos.Users.Create(ctx, replier))

	parent := &models.Comment{UserID: owner.ID, Text: "parent"}
	require.NoError(t, repos.Comments.Create(ctx, parent))
	reply := &models.Comment{UserID: replier.ID, Text: "reply", ReplyID: &parent.ID}
	require.NoError(t, repos.Comments.Create(ctx, reply))

	require.NoError(t, svc.NotifyReply(ctx, parent, reply))

	unread, err := svc.GetUnread(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, models.NotificationCommentReply, unread[0].Type)
	assert.Equal(t, reply.ID, unread[0].CommentID)
	assert.Equal(t, parent.ID, unread[0].ParentID)

	got, err := svc.Get(ctx, unread[0].ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)

	require.NoError(t, svc.MarkAsRead(ctx, got.ID))
	unread, err = svc.GetUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = svc.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.MarkAsRead(ctx, 99), ErrNotFound)
}
