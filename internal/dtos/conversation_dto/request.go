package conversation_dto

type CreateDirectConversationRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
}

type CreateGroupConversationRequest struct {
	Name      string   `json:"name" validate:"omitempty,max=100"`
	MemberIDs []string `json:"member_ids" validate:"required,min=1,dive,uuid"`
}

type ListConversationsRequest struct {
	Page  int `json:"page" validate:"omitempty,min=1"`
	Limit int `json:"limit" validate:"omitempty,min=1,max=50"`
}
