package dto

import (
	"time"

	"github.com/startconnect/api/internal/app/models"
)

// --- Request DTOs ---

// MarkReadRequest represents a batch of message IDs to mark as read
type MarkReadRequest struct {
	MessageIDs []int64 `json:"messageIds" binding:"required,min=1"`
}

// --- Response DTOs ---

// ChatMessageResponse represents a chat message with sender details
type ChatMessageResponse struct {
	ID          int64               `json:"id"`
	TeamID      int64               `json:"teamId"`
	Text        string              `json:"text"`
	Attachments []models.Attachment `json:"attachments"`
	IsDeleted   bool                `json:"isDeleted"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`

	Sender *UserBasicResponse `json:"sender,omitempty"`
	ReadBy []ReadReceipt      `json:"readBy"`
}

// ReadReceipt records when a user read a message
type ReadReceipt struct {
	UserID int64     `json:"userId"`
	ReadAt time.Time `json:"readAt"`
}

// ChatHistoryResponse represents a page of chat history for a team
type ChatHistoryResponse struct {
	Success  bool                  `json:"success"`
	Count    int                   `json:"count"`
	TeamID   int64                 `json:"teamId"`
	Messages []ChatMessageResponse `json:"messages"`
}

// MarkReadResponse reports how many messages were marked as read
type MarkReadResponse struct {
	Success bool `json:"success"`
	Marked  int  `json:"marked"`
}

// DeleteMessageResponse confirms a message deletion
type DeleteMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToChatMessageResponse transforms a models.Message to ChatMessageResponse
func ToChatMessageResponse(message *models.Message) ChatMessageResponse {
	response := ChatMessageResponse{
		ID:          message.ID,
		TeamID:      message.TeamID,
		Text:        message.Text,
		Attachments: message.Attachments,
		IsDeleted:   message.IsDeleted,
		CreatedAt:   message.CreatedAt,
		UpdatedAt:   message.UpdatedAt,
	}

	for _, read := range message.ReadBy {
		response.ReadBy = append(response.ReadBy, ReadReceipt{
			UserID: read.UserID,
			ReadAt: read.ReadAt,
		})
	}

	if response.Attachments == nil {
		response.Attachments = []models.Attachment{}
	}
	if response.ReadBy == nil {
		response.ReadBy = []ReadReceipt{}
	}

	if message.Sender != nil {
		response.Sender = ToUserBasicResponse(message.Sender)
	}

	return response
}

// ToChatMessageResponseList transforms a slice of messages
func ToChatMessageResponseList(messages []*models.Message) []ChatMessageResponse {
	responses := make([]ChatMessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, ToChatMessageResponse(message))
	}
	return responses
}
