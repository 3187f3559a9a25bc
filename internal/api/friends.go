package api

import (
	"context"
	"fmt"
	"net/http"

	"gofront/internal/models"

	"github.com/goccy/go-json"
)

func (s *service) GetRelationships(ctx context.Context) ([]models.Relationship, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/users/me/relationships", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Relationships []models.Relationship `json:"relationships"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing relationships: %w", err)
	}
	return resp.Relationships, nil
}

func (s *service) UpdateUserStatus(ctx context.Context, status string) error {
	payload := map[string]string{"status": status}
	_, err := s.doRequest(ctx, http.MethodPost, "/users/me/status", nil, payload)
	return err
}
