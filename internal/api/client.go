package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gofront/internal/models"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Service is the request/response collaborator of the engine. Calls are
// fire-and-await: no retries happen here, retry policy belongs to the
// caller.
type Service interface {
	GetUserServers(ctx context.Context) ([]models.Server, error)
	GetServer(ctx context.Context, serverId string) (models.Server, error)
	GetSubscribedChannels(ctx context.Context) ([]models.Channel, error)
	GetRoles(ctx context.Context, serverId string) ([]models.Role, error)
	GetMembers(ctx context.Context, serverId string) ([]models.Member, error)
	GetChannelMessages(ctx context.Context, channelId string, limit int, before string) ([]models.Message, error)
	GetRelationships(ctx context.Context) ([]models.Relationship, error)
	GetThreads(ctx context.Context, channelId string) ([]models.Channel, error)
	SearchMessages(ctx context.Context, serverId, query string) ([]models.Message, error)

	CreateMessage(ctx context.Context, message models.Message) (models.Message, error)
	EditMessage(ctx context.Context, channelId, messageId, content string) error
	DeleteMessage(ctx context.Context, channelId, messageId string) error
	AddReaction(ctx context.Context, channelId, messageId, emoji string) error
	RemoveReaction(ctx context.Context, channelId, messageId, emoji string) error
	PinMessage(ctx context.Context, channelId, messageId string) error
	UnpinMessage(ctx context.Context, channelId, messageId string) error

	CreateDirectMessage(ctx context.Context, userId string) (models.Channel, error)
	CloseDirectMessage(ctx context.Context, channelId string) error
	CreateThread(ctx context.Context, channelId, messageId, name string) (models.Channel, error)

	JoinVoice(ctx context.Context, channelId string) (models.VoiceCredentials, error)
	LeaveVoice(ctx context.Context, channelId string) error

	UpdateUserStatus(ctx context.Context, status string) error
}

type service struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
}

func New(baseURL, token string, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  http.DefaultClient,
		log:     logger,
	}
}

// Error is the failure shape every endpoint returns on non-2xx.
type Error struct {
	StatusCode int    `json:"-"`
	Name       string `json:"name,omitempty"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("api: %s (%d): %s", e.Name, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

func (s *service) doRequest(ctx context.Context, method, path string, query url.Values, requestBody any) ([]byte, error) {
	requestURL := s.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("api: creating request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		request.Header.Set("Authorization", "Bearer "+s.token)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("api: reading response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	apiErr := Error{StatusCode: response.StatusCode}
	if jsonErr := json.Unmarshal(responseBody, &apiErr); jsonErr != nil {
		apiErr.Message = string(responseBody)
	}
	apiErr.StatusCode = response.StatusCode
	s.log.Debug("request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", response.StatusCode))
	return nil, &apiErr
}
