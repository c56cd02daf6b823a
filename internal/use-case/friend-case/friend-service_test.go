package friend_service

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/friend_dto"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users      map[string]*entity.User
	friendship *entity.Friendship
	pending    *entity.Friendship
	created    *entity.Friendship
}

func (f *fakeUserRepo) CountUser(ctx context.Context, filter entity.UserFilter) (int64, *app_error.AppError) {
	return 0, nil
}

func (f *fakeUserRepo) SaveUser(ctx context.Context, model entity.User) *app_error.AppError {
	return nil
}

func (f *fakeUserRepo) FindUserByCredential(ctx context.Context, username string) (*entity.User, *app_error.AppError) {
	return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-credential")
}

func (f *fakeUserRepo) FindUserByID(ctx context.Context, userID string) (*entity.User, *app_error.AppError) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, app_error.NewAppError(http.StatusNotFound, "cannot find user", "user-id")
}

func (f *fakeUserRepo) FindUsersByIDs(ctx context.Context, userIDs []string) ([]*entity.User, *app_error.AppError) {
	var out []*entity.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) CreateFriendRequest(ctx context.Context, requesterID, receiverID string) (*entity.Friendship, *app_error.AppError) {
	f.created = &entity.Friendship{
		ID:          1,
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      entity.FriendStatusPending,
	}
	return f.created, nil
}

func (f *fakeUserRepo) FindFriendship(ctx context.Context, userA, userB string) (*entity.Friendship, *app_error.AppError) {
	return f.friendship, nil
}

func (f *fakeUserRepo) AcceptFriendRequest(ctx context.Context, requestID int64, receiverID string) (*entity.Friendship, *app_error.AppError) {
	if f.pending == nil || f.pending.ID != requestID {
		return nil, app_error.NewAppError(http.StatusNotFound, "friend request not found", "not-found")
	}
	if f.pending.ReceiverID != receiverID {
		return nil, app_error.NewAppError(http.StatusForbidden, "only the receiver can accept a friend request", "forbidden")
	}
	f.pending.Status = entity.FriendStatusAccepted
	return f.pending, nil
}

func (f *fakeUserRepo) DeleteFriendship(ctx context.Context, userA, userB string) *app_error.AppError {
	if f.friendship == nil {
		return app_error.NewAppError(http.StatusNotFound, "friendship not found", "not-found")
	}
	f.friendship = nil
	return nil
}

func (f *fakeUserRepo) ListFriends(ctx context.Context, userID string) ([]*entity.User, *app_error.AppError) {
	var out []*entity.User
	for _, u := range f.users {
		if u.ID != userID {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeProducer struct {
	jobs []queue.Job
}

func (f *fakeProducer) Enqueue(ctx context.Context, job queue.Job) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func TestSendRequestEnqueuesNotification(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*entity.User{"bob": {ID: "bob"}}}
	producer := &fakeProducer{}
	svc := &FriendService{UserRepo: repo, Producer: producer}

	resp, err := svc.SendRequest(context.Background(), friend_dto.SendFriendRequestRequest{ReceiverID: "bob"}, "alice")
	require.Nil(t, err)
	assert.Equal(t, entity.FriendStatusPending, resp.Request.Status)

	require.Len(t, producer.jobs, 1)
	var payload queue.NotifyUserPayload
	require.NoError(t, json.Unmarshal(producer.jobs[0].Payload, &payload))
	assert.Equal(t, "bob", payload.UserID)
	assert.Equal(t, "new_friend_request", payload.Event)
}

func TestSendRequestRejectsSelfAndDuplicates(t *testing.T) {
	repo := &fakeUserRepo{
		users:      map[string]*entity.User{"bob": {ID: "bob"}},
		friendship: &entity.Friendship{Status: entity.FriendStatusPending},
	}
	svc := &FriendService{UserRepo: repo, Producer: &fakeProducer{}}

	_, err := svc.SendRequest(context.Background(), friend_dto.SendFriendRequestRequest{ReceiverID: "alice"}, "alice")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)

	_, err = svc.SendRequest(context.Background(), friend_dto.SendFriendRequestRequest{ReceiverID: "bob"}, "alice")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.Code)
}

func TestAcceptNotifiesRequester(t *testing.T) {
	repo := &fakeUserRepo{
		pending: &entity.Friendship{ID: 7, RequesterID: "alice", ReceiverID: "bob", Status: entity.FriendStatusPending},
	}
	producer := &fakeProducer{}
	svc := &FriendService{UserRepo: repo, Producer: producer}

	resp, err := svc.Accept(context.Background(), 7, "bob")
	require.Nil(t, err)
	assert.Equal(t, entity.FriendStatusAccepted, resp.Request.Status)

	require.Len(t, producer.jobs, 1)
	var payload queue.NotifyUserPayload
	require.NoError(t, json.Unmarshal(producer.jobs[0].Payload, &payload))
	assert.Equal(t, "alice", payload.UserID, "the requester gets the acceptance push")
	assert.Equal(t, "friend_request_accepted", payload.Event)
}

func TestUnfriendRemovesFriendship(t *testing.T) {
	repo := &fakeUserRepo{
		friendship: &entity.Friendship{RequesterID: "alice", ReceiverID: "bob", Status: entity.FriendStatusAccepted},
	}
	svc := &FriendService{UserRepo: repo, Producer: &fakeProducer{}}

	resp, err := svc.Unfriend(context.Background(), "alice", "bob")
	require.Nil(t, err)
	assert.True(t, resp.Removed)
	assert.Nil(t, repo.friendship)

	_, err = svc.Unfriend(context.Background(), "alice", "bob")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.Code)

	_, err = svc.Unfriend(context.Background(), "alice", "alice")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestAcceptWrongReceiverForbidden(t *testing.T) {
	repo := &fakeUserRepo{
		pending: &entity.Friendship{ID: 7, RequesterID: "alice", ReceiverID: "bob", Status: entity.FriendStatusPending},
	}
	producer := &fakeProducer{}
	svc := &FriendService{UserRepo: repo, Producer: producer}

	_, err := svc.Accept(context.Background(), 7, "mallory")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
	assert.Empty(t, producer.jobs)
}
