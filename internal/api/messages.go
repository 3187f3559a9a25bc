package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"gofront/internal/models"

	"github.com/goccy/go-json"
)

// GetChannelMessages pages backwards through a channel's history. An
// empty before fetches the newest page; otherwise only messages older
// than the before id are returned.
func (s *service) GetChannelMessages(ctx context.Context, channelId string, limit int, before string) ([]models.Message, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if before != "" {
		query.Set("before", before)
	}

	body, err := s.doRequest(ctx, http.MethodGet, "/channels/"+channelId+"/messages", query, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing messages: %w", err)
	}
	return resp.Messages, nil
}

func (s *service) CreateMessage(ctx context.Context, message models.Message) (models.Message, error) {
	body, err := s.doRequest(ctx, http.MethodPost, "/channels/"+message.ChannelId+"/messages", nil, message)
	if err != nil {
		return models.Message{}, err
	}

	var resp struct {
		Message models.Message `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Message{}, fmt.Errorf("api: parsing created message: %w", err)
	}
	return resp.Message, nil
}

func (s *service) EditMessage(ctx context.Context, channelId, messageId, content string) error {
	payload := map[string]string{"content": content}
	_, err := s.doRequest(ctx, http.MethodPatch, "/channels/"+channelId+"/messages/"+messageId, nil, payload)
	return err
}

func (s *service) DeleteMessage(ctx context.Context, channelId, messageId string) error {
	_, err := s.doRequest(ctx, http.MethodDelete, "/channels/"+channelId+"/messages/"+messageId, nil, nil)
	return err
}

func (s *service) AddReaction(ctx context.Context, channelId, messageId, emoji string) error {
	path := "/channels/" + channelId + "/messages/" + messageId + "/reactions/" + url.PathEscape(emoji)
	_, err := s.doRequest(ctx, http.MethodPut, path, nil, nil)
	return err
}

func (s *service) RemoveReaction(ctx context.Context, channelId, messageId, emoji string) error {
	path := "/channels/" + channelId + "/messages/" + messageId + "/reactions/" + url.PathEscape(emoji)
	_, err := s.doRequest(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func (s *service) PinMessage(ctx context.Context, channelId, messageId string) error {
	_, err := s.doRequest(ctx, http.MethodPut, "/channels/"+channelId+"/pins/"+messageId, nil, nil)
	return err
}

func (s *service) UnpinMessage(ctx context.Context, channelId, messageId string) error {
	_, err := s.doRequest(ctx, http.MethodDelete, "/channels/"+channelId+"/pins/"+messageId, nil, nil)
	return err
}

func (s *service) SearchMessages(ctx context.Context, serverId, query string) ([]models.Message, error) {
	values := url.Values{}
	values.Set("query", query)
	if serverId != "" {
		values.Set("server_id", serverId)
	}

	body, err := s.doRequest(ctx, http.MethodGet, "/search/messages", values, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Messages []models.Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing search results: %w", err)
	}
	return resp.Messages, nil
}
