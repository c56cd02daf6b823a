package friend_dto

type SendFriendRequestRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required,uuid"`
}
