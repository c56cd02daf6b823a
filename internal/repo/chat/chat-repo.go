package chat_repo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/datb2404981/Chat-Nexa/internal/entity"
	app_error "github.com/datb2404981/Chat-Nexa/internal/errors"
	"github.com/datb2404981/Chat-Nexa/state"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	conversationCollection = "conversations"
	messageCollection      = "messages"
)

type ChatRepo struct {
	AppState *state.AppState
}

func NewChatRepo(appState *state.AppState) ChatRepoContract {
	return &ChatRepo{
		AppState: appState,
	}
}

func (r *ChatRepo) conversations() *mongo.Collection {
	return r.AppState.Mongo.Database(r.AppState.MongoDB).Collection(conversationCollection)
}

func (r *ChatRepo) messages() *mongo.Collection {
	return r.AppState.Mongo.Database(r.AppState.MongoDB).Collection(messageCollection)
}

func (r *ChatRepo) CreateConversation(ctx context.Context, conv *entity.Conversation) (*entity.Conversation, *app_error.AppError) {
	now := time.Now().UTC()
	conv.ID = bson.NewObjectID()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	if conv.UnreadCounts == nil {
		conv.UnreadCounts = make(map[string]int64, len(conv.Members))
	}
	for _, m := range conv.Members {
		if _, ok := conv.UnreadCounts[m]; !ok {
			conv.UnreadCounts[m] = 0
		}
	}

	if _, err := r.conversations().InsertOne(ctx, conv); err != nil {
		log.Error().Err(err).Msg("failed to insert conversation")
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to create conversation: %v", err), "mongo")
	}
	return conv, nil
}

func (r *ChatRepo) FindConversationByID(ctx context.Context, id string) (*entity.Conversation, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid conversation ID: %v", err), "invalid-id")
	}

	var conv entity.Conversation
	if err := r.conversations().FindOne(ctx, bson.M{"_id": objID}).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, app_error.NewAppError(http.StatusNotFound, "conversation not found", "not-found")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to fetch conversation: %v", err), "mongo")
	}
	return &conv, nil
}

func (r *ChatRepo) FindDirectConversation(ctx context.Context, userA, userB string) (*entity.Conversation, *app_error.AppError) {
	filter := bson.M{
		"isGroup": false,
		"members": bson.M{"$all": bson.A{userA, userB}, "$size": 2},
	}

	var conv entity.Conversation
	if err := r.conversations().FindOne(ctx, filter).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to query direct conversation: %v", err), "mongo")
	}
	return &conv, nil
}

func (r *ChatRepo) ListConversations(ctx context.Context, userID string, page, limit int) ([]*entity.Conversation, int64, *app_error.AppError) {
	filter := bson.M{
		"members":   userID,
		"deletedBy": bson.M{"$ne": userID},
	}

	total, err := r.conversations().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to count conversations: %v", err), "mongo")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.conversations().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to fetch conversations: %v", err), "mongo")
	}
	defer cur.Close(ctx)

	var convs []*entity.Conversation
	if err := cur.All(ctx, &convs); err != nil {
		return nil, 0, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to decode conversations: %v", err), "mongo")
	}
	return convs, total, nil
}

func (r *ChatRepo) RestoreForUser(ctx context.Context, convID, userID string) *app_error.AppError {
	objID, err := bson.ObjectIDFromHex(convID)
	if err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid conversation ID: %v", err), "invalid-id")
	}

	if _, err := r.conversations().UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$pull": bson.M{"deletedBy": userID}}); err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to restore conversation: %v", err), "mongo")
	}
	return nil
}

func (r *ChatRepo) SoftDeleteForUser(ctx context.Context, convID, userID string) *app_error.AppError {
	objID, err := bson.ObjectIDFromHex(convID)
	if err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid conversation ID: %v", err), "invalid-id")
	}

	res, err := r.conversations().UpdateOne(ctx, bson.M{"_id": objID, "members": userID}, bson.M{"$addToSet": bson.M{"deletedBy": userID}})
	if err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to delete conversation: %v", err), "mongo")
	}
	if res.MatchedCount == 0 {
		return app_error.NewAppError(http.StatusNotFound, "conversation not found", "not-found")
	}
	return nil
}

func (r *ChatRepo) CreateMessage(ctx context.Context, msg *entity.Message) (*entity.Message, *app_error.AppError) {
	msg.ID = bson.NewObjectID()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	if _, err := r.messages().InsertOne(ctx, msg); err != nil {
		log.Error().Err(err).Str("conversation_id", msg.ConversationID.Hex()).Msg("failed to insert message")
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to create message: %v", err), "mongo")
	}
	return msg, nil
}

func (r *ChatRepo) FindMessageByID(ctx context.Context, id string) (*entity.Message, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid message ID: %v", err), "invalid-id")
	}

	var msg entity.Message
	if err := r.messages().FindOne(ctx, bson.M{"_id": objID, "deleted": bson.M{"$ne": true}}).Decode(&msg); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, app_error.NewAppError(http.StatusNotFound, "message not found or has been deleted", "not-found")
		}
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to fetch message: %v", err), "mongo")
	}
	return &msg, nil
}

func (r *ChatRepo) SoftDeleteMessage(ctx context.Context, id string) *app_error.AppError {
	objID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid message ID: %v", err), "invalid-id")
	}

	now := time.Now().UTC()
	res, err := r.messages().UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"deleted": true, "deletedAt": now}})
	if err != nil {
		return app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to delete message: %v", err), "mongo")
	}
	if res.MatchedCount == 0 {
		return app_error.NewAppError(http.StatusNotFound, "message not found", "not-found")
	}
	return nil
}

func (r *ChatRepo) GetMessages(ctx context.Context, convID string, page, limit int) ([]*entity.Message, int64, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(convID)
	if err != nil {
		return nil, 0, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid conversation ID: %v", err), "invalid-id")
	}

	filter := bson.M{"conversationId": objID, "deleted": bson.M{"$ne": true}}

	total, err := r.messages().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to count messages: %v", err), "mongo")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.messages().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to fetch messages: %v", err), "mongo")
	}
	defer cur.Close(ctx)

	var msgs []*entity.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, 0, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to decode messages: %v", err), "mongo")
	}

	// newest page fetched first, flip so callers render oldest to newest
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, total, nil
}

func (r *ChatRepo) ApplyMessageEffects(ctx context.Context, convID string, summary entity.LastMessage, recipients []string) (*entity.Conversation, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(convID)
	if err != nil {
		return nil, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid conversation ID: %v", err), "invalid-id")
	}

	set := bson.M{
		"lastMessage": summary,
		"updatedAt":   time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if len(recipients) > 0 {
		inc := bson.M{}
		for _, uid := range recipients {
			inc["unreadCounts."+uid] = 1
		}
		update["$inc"] = inc
	}

	// single update so the summary and every counter move together
	var conv entity.Conversation
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.conversations().FindOneAndUpdate(ctx, bson.M{"_id": objID}, update, opts).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, app_error.NewAppError(http.StatusNotFound, "conversation not found", "not-found")
		}
		log.Error().Err(err).Str("conversation_id", convID).Msg("failed to apply message effects")
		return nil, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to update conversation summary: %v", err), "mongo")
	}
	return &conv, nil
}

func (r *ChatRepo) ReplaceReadMarker(ctx context.Context, convID, userID string, ts time.Time) (*entity.Conversation, bool, *app_error.AppError) {
	objID, err := bson.ObjectIDFromHex(convID)
	if err != nil {
		return nil, false, app_error.NewAppError(http.StatusBadRequest, fmt.Sprintf("invalid conversation ID: %v", err), "invalid-id")
	}

	// Drop the user's marker only when it is older than ts. If the stored
	// marker is newer or equal it survives the pull, and the guarded push
	// below refuses to add a second one, so stale timestamps are discarded.
	pull := bson.M{
		"$pull": bson.M{"readBy": bson.M{"userId": userID, "lastSeenAt": bson.M{"$lt": ts}}},
	}
	if _, err := r.conversations().UpdateOne(ctx, bson.M{"_id": objID}, pull); err != nil {
		return nil, false, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to clear read marker: %v", err), "mongo")
	}

	push := bson.M{
		"$push": bson.M{"readBy": entity.ReadMarker{UserID: userID, LastSeenAt: ts}},
		"$set":  bson.M{"unreadCounts." + userID: 0},
	}
	filter := bson.M{"_id": objID, "readBy.userId": bson.M{"$ne": userID}}

	var conv entity.Conversation
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.conversations().FindOneAndUpdate(ctx, filter, push, opts).Decode(&conv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// marker did not move, report the current state
			cur, appErr := r.FindConversationByID(ctx, convID)
			if appErr != nil {
				return nil, false, appErr
			}
			return cur, false, nil
		}
		return nil, false, app_error.NewAppError(http.StatusInternalServerError, fmt.Sprintf("failed to replace read marker: %v", err), "mongo")
	}
	return &conv, true, nil
}
