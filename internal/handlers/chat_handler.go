package handlers

import (
	"dentastore/internal/services"
	"dentastore/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// StartConversation opens a support thread with an initial message
func (h *ChatHandler) StartConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var request services.StartConversationRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	conversation, err := h.chatService.StartConversation(c.Request.Context(), userID, &request)
	if err != nil {
		handleServiceError(c, err, "CONVERSATION_CREATE_FAILED")
		return
	}

	utils.CreatedResponse(c, "Conversation started successfully", conversation)
}

// GetConversation retrieves a conversation the caller can access
func (h *ChatHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	conversation, err := h.chatService.GetConversation(c.Request.Context(), userID, currentUserRole(c), conversationID)
	if err != nil {
		handleServiceError(c, err, "CONVERSATION_FETCH_FAILED")
		return
	}

	utils.SuccessResponse(c, "Conversation retrieved successfully", conversation)
}

// GetMyConversations lists the caller's conversations
func (h *ChatHandler) GetMyConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	conversations, total, err := h.chatService.GetCustomerConversations(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, err, "CONVERSATION_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Conversations retrieved successfully", map[string]interface{}{
		"conversations": conversations,
	}, meta)
}

// GetOpenConversations lists open threads for the support team
func (h *ChatHandler) GetOpenConversations(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	conversations, total, err := h.chatService.GetOpenConversations(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, err, "CONVERSATION_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Conversations retrieved successfully", map[string]interface{}{
		"conversations": conversations,
	}, meta)
}

// AssignConversation assigns a support agent to a conversation
func (h *ChatHandler) AssignConversation(c *gin.Context) {
	conversationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request struct {
		AssigneeID string `json:"assignee_id" validate:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	assigneeID, err := primitive.ObjectIDFromHex(request.AssigneeID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid assignee ID")
		return
	}

	if err := h.chatService.AssignConversation(c.Request.Context(), conversationID, assigneeID); err != nil {
		handleServiceError(c, err, "CONVERSATION_ASSIGN_FAILED")
		return
	}

	utils.SuccessResponse(c, "Conversation assigned successfully", nil)
}

// CloseConversation closes a support thread
func (h *ChatHandler) CloseConversation(c *gin.Context) {
	conversationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.CloseConversation(c.Request.Context(), conversationID); err != nil {
		handleServiceError(c, err, "CONVERSATION_CLOSE_FAILED")
		return
	}

	utils.SuccessResponse(c, "Conversation closed successfully", nil)
}

// SendMessage posts a message to a conversation
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	var request services.SendMessageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}
	request.ConversationID = conversationID

	message, err := h.chatService.SendMessage(c.Request.Context(), userID, currentUserRole(c), &request)
	if err != nil {
		handleServiceError(c, err, "MESSAGE_SEND_FAILED")
		return
	}

	utils.CreatedResponse(c, "Message sent successfully", message)
}

// GetMessages lists the messages of a conversation
func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatService.GetMessages(c.Request.Context(), userID, currentUserRole(c), conversationID, params)
	if err != nil {
		handleServiceError(c, err, "MESSAGE_LIST_FAILED")
		return
	}

	meta := &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
	}

	utils.SuccessResponseWithMeta(c, "Messages retrieved successfully", map[string]interface{}{
		"messages": messages,
	}, meta)
}

// MarkMessagesRead marks the conversation's messages as read by the caller
func (h *ChatHandler) MarkMessagesRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversationID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.MarkMessagesRead(c.Request.Context(), conversationID, userID); err != nil {
		handleServiceError(c, err, "MESSAGE_READ_FAILED")
		return
	}

	utils.SuccessResponse(c, "Messages marked as read", nil)
}
