package conversation_service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/conversation_dto"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type fakeChatRepo struct {
	direct        *entity.Conversation
	byID          *entity.Conversation
	created       *entity.Conversation
	restoredFor   []string
	softDeleted   []string
	markerApplied bool
	markerTS      time.Time
}

func (f *fakeChatRepo) CreateConversation(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, *app_error.AppError) {
	conv.ID = bson.NewObjectID()
	conv.UnreadCounts = map[string]int64{}
	for _, m := range conv.Members {
		conv.UnreadCounts[m] = 0
	}
	f.created = conv
	return conv, nil
}

func (f *fakeChatRepo) FindConversationByID(ctx context.Context, id string) (*entity.Conversation, *app_error.AppError) {
	if f.byID == nil {
		return nil, app_error.NewAppError(http.StatusNotFound, "conversation not found", "not-found")
	}
	return f.byID, nil
}

func (f *fakeChatRepo) FindDirectConversation(ctx context.Context, userA, userB string) (*entity.Conversation, *app_error.AppError) {
	return f.direct, nil
}

func (f *fakeChatRepo) ListConversations(ctx context.Context, userID string, page, limit int) ([]*entity.Conversation, int64, *app_error.AppError) {
	if f.byID == nil {
		return nil, 0, nil
	}
	return []*entity.Conversation{f.byID}, 1, nil
}

func (f *fakeChatRepo) RestoreForUser(ctx context.Context, convID, userID string) *app_error.AppError {
	f.restoredFor = append(f.restoredFor, userID)
	return nil
}

func (f *fakeChatRepo) SoftDeleteForUser(ctx context.Context, convID, userID string) *app_error.AppError {
	f.softDeleted = append(f.softDeleted, userID)
	return nil
}

func (f *fakeChatRepo) CreateMessage(ctx context.Context, msg *entity.Message) (*entity.Message, *app_error.AppError) {
	return msg, nil
}

func (f *fakeChatRepo) FindMessageByID(ctx context.Context, id string) (*entity.Message, *app_error.AppError) {
	return nil, app_error.NewAppError(http.StatusNotFound, "message not found or has been deleted", "not-found")
}

func (f *fakeChatRepo) SoftDeleteMessage(ctx context.Context, id string) *app_error.AppError {
	return nil
}

func (f *fakeChatRepo) GetMessages(ctx context.Context, convID string, page, limit int) ([]*entity.Message, int64, *app_error.AppError) {
	return nil, 0, nil
}

func (f *fakeChatRepo) ApplyMessageEffects(ctx context.Context, convID string, summary entity.LastMessage, recipients []string) (*entity.Conversation, *app_error.AppError) {
	return f.byID, nil
}

func (f *fakeChatRepo) ReplaceReadMarker(ctx context.Context, convID, userID string, ts time.Time) (*entity.Conversation, bool, *app_error.AppError) {
	if !f.markerApplied {
		return f.byID, false, nil
	}
	f.markerTS = ts
	return f.byID, true, nil
}

type fakeUserRepo struct {
	friendships map[string]*entity.Friendship
}

func pairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
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
	return &entity.User{ID: userID}, nil
}

func (f *fakeUserRepo) FindUsersByIDs(ctx context.Context, userIDs []string) ([]*entity.User, *app_error.AppError) {
	return nil, nil
}

func (f *fakeUserRepo) CreateFriendRequest(ctx context.Context, requesterID, receiverID string) (*entity.Friendship, *app_error.AppError) {
	return nil, nil
}

func (f *fakeUserRepo) FindFriendship(ctx context.Context, userA, userB string) (*entity.Friendship, *app_error.AppError) {
	return f.friendships[pairKey(userA, userB)], nil
}

func (f *fakeUserRepo) AcceptFriendRequest(ctx context.Context, requestID int64, receiverID string) (*entity.Friendship, *app_error.AppError) {
	return nil, nil
}

func (f *fakeUserRepo) DeleteFriendship(ctx context.Context, userA, userB string) *app_error.AppError {
	return nil
}

func (f *fakeUserRepo) ListFriends(ctx context.Context, userID string) ([]*entity.User, *app_error.AppError) {
	return nil, nil
}

type fakeProducer struct {
	jobs []queue.Job
}

func (f *fakeProducer) Enqueue(ctx context.Context, job queue.Job) error {
	f.jobs = append(f.jobs, job)
	return nil
}

type fakeBroadcaster struct {
	events []string
	rooms  []string
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID, event string, payload any) {
	f.rooms = append(f.rooms, roomID)
	f.events = append(f.events, event)
}

func accepted(a, b string) map[string]*entity.Friendship {
	return map[string]*entity.Friendship{
		pairKey(a, b): {RequesterID: a, ReceiverID: b, Status: entity.FriendStatusAccepted},
	}
}

func newService(repo *fakeChatRepo, users *fakeUserRepo) (*ConversationService, *fakeBroadcaster, *fakeProducer) {
	ws := &fakeBroadcaster{}
	producer := &fakeProducer{}
	return &ConversationService{
		ChatRepo: repo,
		UserRepo: users,
		WS:       ws,
		Producer: producer,
	}, ws, producer
}

func TestCreateDirectRequiresAcceptedFriendship(t *testing.T) {
	repo := &fakeChatRepo{}
	users := &fakeUserRepo{friendships: map[string]*entity.Friendship{
		pairKey("alice", "bob"): {RequesterID: "alice", ReceiverID: "bob", Status: entity.FriendStatusPending},
	}}
	svc, _, _ := newService(repo, users)

	_, err := svc.CreateDirect(context.Background(), conversation_dto.CreateDirectConversationRequest{ReceiverID: "bob"}, "alice")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
	assert.Nil(t, repo.created)
}

func TestCreateDirectRejectsSelf(t *testing.T) {
	svc, _, _ := newService(&fakeChatRepo{}, &fakeUserRepo{})

	_, err := svc.CreateDirect(context.Background(), conversation_dto.CreateDirectConversationRequest{ReceiverID: "alice"}, "alice")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.Code)
}

func TestCreateDirectReusesExistingConversation(t *testing.T) {
	existing := &entity.Conversation{
		ID:        bson.NewObjectID(),
		Members:   []string{"alice", "bob"},
		DeletedBy: []string{"alice"},
	}
	repo := &fakeChatRepo{direct: existing}
	svc, _, producer := newService(repo, &fakeUserRepo{friendships: accepted("alice", "bob")})

	resp, err := svc.CreateDirect(context.Background(), conversation_dto.CreateDirectConversationRequest{ReceiverID: "bob"}, "alice")
	require.Nil(t, err)
	assert.Equal(t, existing.ID, resp.Conversation.ID)
	assert.Nil(t, repo.created, "no second conversation for the same pair")
	assert.Equal(t, []string{"alice"}, repo.restoredFor)
	assert.Empty(t, producer.jobs, "reviving an old conversation is not announced")
}

func TestCreateDirectNotifiesReceiver(t *testing.T) {
	repo := &fakeChatRepo{}
	svc, _, producer := newService(repo, &fakeUserRepo{friendships: accepted("alice", "bob")})

	resp, err := svc.CreateDirect(context.Background(), conversation_dto.CreateDirectConversationRequest{ReceiverID: "bob"}, "alice")
	require.Nil(t, err)
	require.NotNil(t, resp.Conversation)
	assert.ElementsMatch(t, []string{"alice", "bob"}, resp.Conversation.Members)

	require.Len(t, producer.jobs, 1)
	assert.Equal(t, queue.JobNotifyUser, producer.jobs[0].Type)
}

func TestCreateGroupDedupesMembers(t *testing.T) {
	repo := &fakeChatRepo{}
	users := &fakeUserRepo{friendships: map[string]*entity.Friendship{
		pairKey("alice", "bob"):  {Status: entity.FriendStatusAccepted},
		pairKey("alice", "carl"): {Status: entity.FriendStatusAccepted},
	}}
	svc, _, producer := newService(repo, users)

	resp, err := svc.CreateGroup(context.Background(), conversation_dto.CreateGroupConversationRequest{
		Name:      "trio",
		MemberIDs: []string{"bob", "carl", "bob", "alice"},
	}, "alice")
	require.Nil(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob", "carl"}, resp.Conversation.Members)
	assert.True(t, resp.Conversation.IsGroup)
	assert.Len(t, producer.jobs, 2)
}

func TestMarkReadBroadcastsSeenEvent(t *testing.T) {
	conv := &entity.Conversation{
		ID:           bson.NewObjectID(),
		Members:      []string{"alice", "bob"},
		UnreadCounts: map[string]int64{"alice": 3, "bob": 0},
	}
	repo := &fakeChatRepo{byID: conv, markerApplied: true}
	svc, ws, _ := newService(repo, &fakeUserRepo{})

	resp, err := svc.MarkRead(context.Background(), conv.ID.Hex(), "alice")
	require.Nil(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, repo.markerTS, resp.LastSeenAt)

	require.Len(t, ws.events, 1)
	assert.Equal(t, "on_conversation_seen", ws.events[0])
	assert.Equal(t, conv.ID.Hex(), ws.rooms[0])
}

func TestMarkReadStaleMarkerIsSilent(t *testing.T) {
	newer := time.Now().Add(time.Hour).UTC()
	conv := &entity.Conversation{
		ID:      bson.NewObjectID(),
		Members: []string{"alice", "bob"},
		ReadBy:  []entity.ReadMarker{{UserID: "alice", LastSeenAt: newer}},
	}
	repo := &fakeChatRepo{byID: conv, markerApplied: false}
	svc, ws, _ := newService(repo, &fakeUserRepo{})

	resp, err := svc.MarkRead(context.Background(), conv.ID.Hex(), "alice")
	require.Nil(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, newer, resp.LastSeenAt)
	assert.Empty(t, ws.events, "no seen event when the marker did not move")
}

func TestMarkReadRequiresMembership(t *testing.T) {
	conv := &entity.Conversation{ID: bson.NewObjectID(), Members: []string{"alice", "bob"}}
	repo := &fakeChatRepo{byID: conv}
	svc, _, _ := newService(repo, &fakeUserRepo{})

	_, err := svc.MarkRead(context.Background(), conv.ID.Hex(), "mallory")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.Code)
}

func TestListDecoratesDirectConversations(t *testing.T) {
	conv := &entity.Conversation{
		ID:           bson.NewObjectID(),
		Members:      []string{"alice", "bob"},
		UnreadCounts: map[string]int64{"alice": 4, "bob": 0},
	}
	repo := &fakeChatRepo{byID: conv}
	svc, _, _ := newService(repo, &fakeUserRepo{})

	resp, err := svc.List(context.Background(), conversation_dto.ListConversationsRequest{}, "alice")
	require.Nil(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "bob", resp.Data[0].ReceiverID)
	assert.Equal(t, int64(4), resp.Data[0].UnreadCount)
	assert.Equal(t, int64(1), resp.Meta.Total)
}
