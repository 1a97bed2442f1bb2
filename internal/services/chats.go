package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/hoshizora/bancho-gateway/internal/models"
)

// ChatsClient talks to the chats service: channels and their members.
type ChatsClient struct {
	client *client
}

// ChatFilters narrows GetChats. Zero values are not sent.
type ChatFilters struct {
	Name string
}

// GetChats lists channels matching the filters.
func (c *ChatsClient) GetChats(ctx context.Context, filters ChatFilters) ([]models.Chat, error) {
	query := url.Values{}
	if filters.Name != "" {
		query.Set("name", filters.Name)
	}
	var chats []models.Chat
	if err := c.client.call(ctx, http.MethodGet, "/v1/chats", query, nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// GetMembers lists a channel's current members.
func (c *ChatsClient) GetMembers(ctx context.Context, chatID int) ([]models.Member, error) {
	path := "/v1/chats/" + strconv.Itoa(chatID) + "/members"
	var members []models.Member
	if err := c.client.call(ctx, http.MethodGet, path, nil, nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// JoinChat adds a session to a channel.
func (c *ChatsClient) JoinChat(ctx context.Context, chatID int, sessionID uuid.UUID, accountID int, username string, privileges int) (*models.Member, error) {
	body := map[string]any{
		"session_id": sessionID,
		"account_id": accountID,
		"username":   username,
		"privileges": privileges,
	}
	path := "/v1/chats/" + strconv.Itoa(chatID) + "/members"
	var member models.Member
	if err := c.client.call(ctx, http.MethodPost, path, nil, body, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// LeaveChat removes a session from a channel.
func (c *ChatsClient) LeaveChat(ctx context.Context, chatID int, sessionID uuid.UUID) error {
	path := "/v1/chats/" + strconv.Itoa(chatID) + "/members/" + sessionID.String()
	return c.client.call(ctx, http.MethodDelete, path, nil, nil, nil)
}
