package api

import (
	"context"
	"fmt"
	"net/http"

	"gofront/internal/models"

	"github.com/goccy/go-json"
)

// JoinVoice asks the server for an access token and transport url for
// the channel's voice room.
func (s *service) JoinVoice(ctx context.Context, channelId string) (models.VoiceCredentials, error) {
	body, err := s.doRequest(ctx, http.MethodPost, "/voice/"+channelId+"/join", nil, nil)
	if err != nil {
		return models.VoiceCredentials{}, err
	}

	var creds models.VoiceCredentials
	if err := json.Unmarshal(body, &creds); err != nil {
		return models.VoiceCredentials{}, fmt.Errorf("api: parsing voice credentials: %w", err)
	}
	return creds, nil
}

func (s *service) LeaveVoice(ctx context.Context, channelId string) error {
	_, err := s.doRequest(ctx, http.MethodPost, "/voice/"+channelId+"/leave", nil, nil)
	return err
}
