package api

import (
	"context"
	"fmt"
	"net/http"

	"gofront/internal/models"

	"github.com/goccy/go-json"
)

// Channels
func (s *service) GetSubscribedChannels(ctx context.Context) ([]models.Channel, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/users/me/channels", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Channels []models.Channel `json:"channels"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing channels: %w", err)
	}
	return resp.Channels, nil
}

func (s *service) GetThreads(ctx context.Context, channelId string) ([]models.Channel, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/channels/"+channelId+"/threads", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Threads []models.Channel `json:"threads"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing threads: %w", err)
	}
	return resp.Threads, nil
}

func (s *service) CreateThread(ctx context.Context, channelId, messageId, name string) (models.Channel, error) {
	payload := map[string]string{
		"name":       name,
		"message_id": messageId,
	}
	body, err := s.doRequest(ctx, http.MethodPost, "/channels/"+channelId+"/threads", nil, payload)
	if err != nil {
		return models.Channel{}, err
	}

	var resp struct {
		Channel models.Channel `json:"channel"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Channel{}, fmt.Errorf("api: parsing thread: %w", err)
	}
	return resp.Channel, nil
}

func (s *service) CreateDirectMessage(ctx context.Context, userId string) (models.Channel, error) {
	payload := map[string]string{"user_id": userId}
	body, err := s.doRequest(ctx, http.MethodPost, "/users/me/channels", nil, payload)
	if err != nil {
		return models.Channel{}, err
	}

	var resp struct {
		Channel models.Channel `json:"channel"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Channel{}, fmt.Errorf("api: parsing dm channel: %w", err)
	}
	return resp.Channel, nil
}

func (s *service) CloseDirectMessage(ctx context.Context, channelId string) error {
	_, err := s.doRequest(ctx, http.MethodDelete, "/users/me/channels/"+channelId, nil, nil)
	return err
}
