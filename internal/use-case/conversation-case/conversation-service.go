package conversation_service

import (
	"context"
	"net/http"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/dtos"
	"github.com/datb2404981/Chat-Nexa/internal/dtos/conversation_dto"
	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/internal/queue"
	chat_repo "github.com/datb2404981/Chat-Nexa/internal/repo/chat"
	user_repo "github.com/datb2404981/Chat-Nexa/internal/repo/user"
	"github.com/datb2404981/Chat-Nexa/internal/websocket"
	"github.com/datb2404981/Chat-Nexa/state"
	"github.com/rs/zerolog/log"
)

type ConversationService struct {
	AppState *state.AppState
	ChatRepo chat_repo.ChatRepoContract
	UserRepo user_repo.UserRepoContract
	WS       Broadcaster
	Producer queue.Producer
}

func NewConversationService(appState *state.AppState, ws Broadcaster) ConversationServiceContract {
	return &ConversationService{
		AppState: appState,
		ChatRepo: chat_repo.NewChatRepo(appState),
		UserRepo: user_repo.NewUserRepo(appState),
		WS:       ws,
		Producer: queue.NewProducer(appState.Redis),
	}
}

func (s *ConversationService) CreateDirect(ctx context.Context, req conversation_dto.CreateDirectConversationRequest, userID string) (*conversation_dto.CreateConversationResponse, *app_error.AppError) {
	if req.ReceiverID == userID {
		return nil, app_error.NewAppError(http.StatusBadRequest, "cannot start a conversation with yourself", "receiver_id")
	}

	if err := s.requireFriendship(ctx, userID, req.ReceiverID); err != nil {
		return nil, err
	}

	// a direct pair gets at most one conversation, revive it if it exists
	existing, err := s.ChatRepo.FindDirectConversation(ctx, userID, req.ReceiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.ChatRepo.RestoreForUser(ctx, existing.ID.Hex(), userID); err != nil {
			return nil, err
		}
		return &conversation_dto.CreateConversationResponse{Conversation: existing}, nil
	}

	conv, err := s.ChatRepo.CreateConversation(ctx, &entity.Conversation{
		IsGroup:   false,
		Members:   []string{userID, req.ReceiverID},
		CreatedBy: userID,
	})
	if err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, conv, userID)
	return &conversation_dto.CreateConversationResponse{Conversation: conv}, nil
}

func (s *ConversationService) CreateGroup(ctx context.Context, req conversation_dto.CreateGroupConversationRequest, userID string) (*conversation_dto.CreateConversationResponse, *app_error.AppError) {
	members := []string{userID}
	seen := map[string]bool{userID: true}
	for _, id := range req.MemberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		members = append(members, id)
	}

	if len(members) < 2 {
		return nil, app_error.NewAppError(http.StatusBadRequest, "a group needs at least one other member", "member_ids")
	}

	for _, id := range members[1:] {
		if err := s.requireFriendship(ctx, userID, id); err != nil {
			return nil, err
		}
	}

	conv, err := s.ChatRepo.CreateConversation(ctx, &entity.Conversation{
		IsGroup:   true,
		Name:      req.Name,
		Members:   members,
		CreatedBy: userID,
	})
	if err != nil {
		return nil, err
	}

	s.notifyMembers(ctx, conv, userID)
	return &conversation_dto.CreateConversationResponse{Conversation: conv}, nil
}

func (s *ConversationService) List(ctx context.Context, req conversation_dto.ListConversationsRequest, userID string) (*conversation_dto.ListConversationsResponse, *app_error.AppError) {
	page := req.Page
	if page == 0 {
		page = 1
	}
	limit := req.Limit
	if limit == 0 {
		limit = 20
	}

	convs, total, err := s.ChatRepo.ListConversations(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	views := make([]conversation_dto.ConversationView, 0, len(convs))
	for _, conv := range convs {
		view := conversation_dto.ConversationView{
			Conversation: conv,
			UnreadCount:  conv.UnreadCounts[userID],
		}
		if receiver, ok := conv.ResolveCounterpart(userID); ok {
			view.ReceiverID = receiver
		}
		views = append(views, view)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &conversation_dto.ListConversationsResponse{
		Data: views,
		Meta: dtos.PageMeta{
			Current:  page,
			PageSize: limit,
			Pages:    pages,
			Total:    total,
		},
	}, nil
}

func (s *ConversationService) Get(ctx context.Context, conversationID, userID string) (*conversation_dto.GetConversationResponse, *app_error.AppError) {
	conv, err := s.ChatRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasMember(userID) {
		return nil, app_error.NewAppError(http.StatusForbidden, "user is not a member of this conversation", "forbidden")
	}
	return &conversation_dto.GetConversationResponse{Conversation: conv}, nil
}

func (s *ConversationService) MarkRead(ctx context.Context, conversationID, userID string) (*conversation_dto.MarkReadResponse, *app_error.AppError) {
	conv, err := s.ChatRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasMember(userID) {
		return nil, app_error.NewAppError(http.StatusForbidden, "user is not a member of this conversation", "forbidden")
	}

	ts := time.Now().UTC()
	updated, applied, err := s.ChatRepo.ReplaceReadMarker(ctx, conversationID, userID, ts)
	if err != nil {
		return nil, err
	}

	if !applied {
		// a newer marker is already in place, nothing to announce
		lastSeen := ts
		if marker, ok := updated.MarkerFor(userID); ok {
			lastSeen = marker.LastSeenAt
		}
		return &conversation_dto.MarkReadResponse{Success: false, LastSeenAt: lastSeen}, nil
	}

	s.WS.BroadcastToRoom(conversationID, websocket.EventConversationSeen, websocket.ConversationSeenPayload{
		ConversationID: conversationID,
		UserID:         userID,
		LastSeenAt:     ts,
	})

	return &conversation_dto.MarkReadResponse{Success: true, LastSeenAt: ts}, nil
}

func (s *ConversationService) Delete(ctx context.Context, conversationID, userID string) (*conversation_dto.DeleteConversationResponse, *app_error.AppError) {
	if err := s.ChatRepo.SoftDeleteForUser(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return &conversation_dto.DeleteConversationResponse{Deleted: true}, nil
}

func (s *ConversationService) requireFriendship(ctx context.Context, userID, otherID string) *app_error.AppError {
	friendship, err := s.UserRepo.FindFriendship(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if friendship == nil || friendship.Status != entity.FriendStatusAccepted {
		return app_error.NewAppError(http.StatusForbidden, "users must be friends to start a conversation", "friendship")
	}
	return nil
}

// notifyMembers queues an on_new_conversation push for every member except
// the creator. Delivery order against other account events is irrelevant,
// so this goes through the job queue instead of the hub directly.
func (s *ConversationService) notifyMembers(ctx context.Context, conv *entity.Conversation, creatorID string) {
	for _, m := range conv.Members {
		if m == creatorID {
			continue
		}
		job := queue.NewNotifyUserJob(m, websocket.EventNewConversation, websocket.NewConversationPayload{Conversation: conv}, 2)
		if err := s.Producer.Enqueue(ctx, job); err != nil {
			log.Warn().Err(err).Str("user_id", m).Str("conversation_id", conv.ID.Hex()).Msg("failed to enqueue conversation notification")
		}
	}
}
