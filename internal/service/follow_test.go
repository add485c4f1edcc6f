package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IvanKorch1289/foodgram/internal/apperror"
)

func TestFollowSelfIsRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	user := createUser(t, db, "loner")

	_, err := svc.Follow(context.Background(), user.ID, user.ID)
	require.Error(t, err)

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.Validation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "author")
}

func TestFollowAndUnfollow(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	reader := createUser(t, db, "reader")
	chef := createUser(t, db, "chef")

	author, err := svc.Follow(context.Background(), reader.ID, chef.ID)
	require.NoError(t, err)
	assert.Equal(t, chef.ID, author.ID)

	_, err = svc.Follow(context.Background(), reader.ID, chef.ID)
	assert.True(t, apperror.IsConflict(err))

	require.NoError(t, svc.Unfollow(context.Background(), reader.ID, chef.ID))

	err = svc.Unfollow(context.Background(), reader.ID, chef.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	reader := createUser(t, db, "reader")

	_, err := svc.Follow(context.Background(), reader.ID, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestListFollowingSubscriptionOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewFollowService(db)
	reader := createUser(t, db, "reader")
	first := createUser(t, db, "zoe")
	second := createUser(t, db, "abel")

	_, err := svc.Follow(context.Background(), reader.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Follow(context.Background(), reader.ID, second.ID)
	require.NoError(t, err)

	authors, count, err := svc.ListFollowing(context.Background(), reader.ID, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, authors, 2)
	// Subscription order, not alphabetical.
	assert.Equal(t, "zoe", authors[0].Username)
	assert.Equal(t, "abel", authors[1].Username)

	authors, count, err = svc.ListFollowing(context.Background(), reader.ID, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	require.Len(t, authors, 1)
	assert.Equal(t, "abel", authors[0].Username)
}
