package api

import (
	"context"
	"fmt"
	"net/http"

	"gofront/internal/models"

	"github.com/goccy/go-json"
)

// Servers
func (s *service) GetUserServers(ctx context.Context) ([]models.Server, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/users/me/servers", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Servers []models.Server `json:"servers"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing servers: %w", err)
	}
	return resp.Servers, nil
}

func (s *service) GetServer(ctx context.Context, serverId string) (models.Server, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/servers/"+serverId, nil, nil)
	if err != nil {
		return models.Server{}, err
	}

	var resp struct {
		Server models.Server `json:"server"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Server{}, fmt.Errorf("api: parsing server: %w", err)
	}
	return resp.Server, nil
}

func (s *service) GetRoles(ctx context.Context, serverId string) ([]models.Role, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/servers/"+serverId+"/roles", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Roles []models.Role `json:"roles"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing roles: %w", err)
	}
	return resp.Roles, nil
}

func (s *service) GetMembers(ctx context.Context, serverId string) ([]models.Member, error) {
	body, err := s.doRequest(ctx, http.MethodGet, "/servers/"+serverId+"/members", nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Members []models.Member `json:"members"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("api: parsing members: %w", err)
	}
	return resp.Members, nil
}
