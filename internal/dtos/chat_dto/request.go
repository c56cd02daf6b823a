package chat_dto

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required,objectID"`
	Content        string `json:"content" validate:"required,min=1"`
	Type           string `json:"type" validate:"omitempty,oneof=TEXT IMAGE FILE"`
	FileURL        string `json:"file_url" validate:"omitempty,url"`
}

type GetMessagesRequest struct {
	Page  int `json:"page" validate:"omitempty,min=1"`
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`
}

func ObjectIDValidator(fl validator.FieldLevel) bool {
	_, err := bson.ObjectIDFromHex(fl.Field().String())
	return err == nil
}
