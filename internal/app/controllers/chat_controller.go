package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/startconnect/api/internal/app/models/dto"
	"github.com/startconnect/api/internal/app/services"
	"github.com/startconnect/api/internal/middleware"
)

// ChatController handles the request/response side of team chat
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

// GetTeamMessages godoc
// @Summary Get team chat history
// @Description Retrieve the 50 most recent messages of a team chat in chronological order. Deleted messages are excluded.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param teamId path int true "Team ID"
// @Success 200 {object} dto.ChatHistoryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid team ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Forbidden: caller is not a member of the team"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/{teamId} [get]
func (c *ChatController) GetTeamMessages(ctx *gin.Context) {
	teamID, err := strconv.ParseInt(ctx.Param("teamId"), 10, 64)
	if err != nil || teamID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid team ID")))
		return
	}

	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	history, err := c.chatService.GetTeamMessages(ctx.Request.Context(), teamID, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, history)
}

// DeleteMessage godoc
// @Summary Delete a chat message
// @Description Soft-delete a message. Only the original sender may delete a message.
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Param messageId path int true "Message ID"
// @Success 200 {object} dto.DeleteMessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid message ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Forbidden: caller is not the sender"
// @Failure 404 {object} dto.ErrorResponse "Message not found"
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/message/{messageId} [delete]
func (c *ChatController) DeleteMessage(ctx *gin.Context) {
	messageID, err := strconv.ParseInt(ctx.Param("messageId"), 10, 64)
	if err != nil || messageID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid message ID")))
		return
	}

	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	if err := c.chatService.DeleteMessage(ctx.Request.Context(), messageID, callerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.DeleteMessageResponse{
		Success: true,
		Message: "Message deleted",
	})
}

// MarkMessagesRead godoc
// @Summary Mark messages as read
// @Description Record read receipts for a batch of messages. Already-read messages are skipped.
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamId path int true "Team ID"
// @Param request body dto.MarkReadRequest true "Message IDs to mark as read"
// @Success 200 {object} dto.MarkReadResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or empty message ID list"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} dto.ErrorResponse "Forbidden: caller is not a member of the team"
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat/{teamId}/read [post]
func (c *ChatController) MarkMessagesRead(ctx *gin.Context) {
	teamID, err := strconv.ParseInt(ctx.Param("teamId"), 10, 64)
	if err != nil || teamID <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid team ID")))
		return
	}

	var req dto.MarkReadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "messageIds is required")))
		return
	}

	callerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	marked, err := c.chatService.MarkMessagesRead(ctx.Request.Context(), teamID, callerID, req.MessageIDs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MarkReadResponse{
		Success: true,
		Marked:  int(marked),
	})
}
