package friend_service

import (
	"context"
	"net/http"

	"github.com/datb2404981/Chat-Nexa/internal/dtos/friend_dto"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/queue"
	user_repo "github.com/datb2404981/Chat-Nexa/internal/repo/user"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	"github.com/datb2404981/Chat-Nexa/state"
	"github.com/rs/zerolog/log"
)

type FriendService struct {
	AppState *state.AppState
	UserRepo user_repo.UserRepoContract
	Producer queue.Producer
}

func NewFriendService(appState *state.AppState) FriendServiceContract {
	return &FriendService{
		AppState: appState,
		UserRepo: user_repo.NewUserRepo(appState),
		Producer: queue.NewProducer(appState.Redis),
	}
}

func (s *FriendService) SendRequest(ctx context.Context, req friend_dto.SendFriendRequestRequest, requesterID string) (*friend_dto.FriendRequestResponse, *app_error.AppError) {
	if req.ReceiverID == requesterID {
		return nil, app_error.NewAppError(http.StatusBadRequest, "cannot send a friend request to yourself", "receiver_id")
	}

	receiver, err := s.UserRepo.FindUserByID(ctx, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	existing, err := s.UserRepo.FindFriendship(ctx, requesterID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != entity.FriendStatusRejected {
		return nil, app_error.NewAppError(http.StatusConflict, "a friendship or pending request already exists", "friend-request")
	}

	friendship, err := s.UserRepo.CreateFriendRequest(ctx, requesterID, req.ReceiverID)
	if err != nil {
		return nil, err
	}

	s.enqueueNotify(ctx, receiver.ID, websocket.EventNewFriendRequest, friendship)
	return &friend_dto.FriendRequestResponse{Request: friendship}, nil
}

func (s *FriendService) Accept(ctx context.Context, requestID int64, receiverID string) (*friend_dto.FriendRequestResponse, *app_error.AppError) {
	friendship, err := s.UserRepo.AcceptFriendRequest(ctx, requestID, receiverID)
	if err != nil {
		return nil, err
	}

	s.enqueueNotify(ctx, friendship.RequesterID, websocket.EventFriendRequestAccepted, friendship)
	return &friend_dto.FriendRequestResponse{Request: friendship}, nil
}

func (s *FriendService) Unfriend(ctx context.Context, userID, friendID string) (*friend_dto.UnfriendResponse, *app_error.AppError) {
	if userID == friendID {
		return nil, app_error.NewAppError(http.StatusBadRequest, "cannot unfriend yourself", "friend_id")
	}

	if err := s.UserRepo.DeleteFriendship(ctx, userID, friendID); err != nil {
		return nil, err
	}
	return &friend_dto.UnfriendResponse{Removed: true}, nil
}

func (s *FriendService) ListFriends(ctx context.Context, userID string) (*friend_dto.ListFriendsResponse, *app_error.AppError) {
	friends, err := s.UserRepo.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &friend_dto.ListFriendsResponse{Friends: friends}, nil
}

func (s *FriendService) enqueueNotify(ctx context.Context, userID, event string, friendship *entity.Friendship) {
	job := queue.NewNotifyUserJob(userID, event, friendship, 2)
	if err := s.Producer.Enqueue(ctx, job); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("event", event).Msg("failed to enqueue friend notification")
	}
}
