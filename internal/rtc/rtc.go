package rtc

import (
	"fmt"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.uber.org/zap"
)

// Session is an established voice room connection. The engine only
// starts and stops it; media flows outside the replica entirely.
type Session interface {
	Disconnect()
}

type Service interface {
	Connect(url, token string) (Session, error)
}

type service struct {
	log *zap.Logger
}

func New(logger *zap.Logger) Service {
	return &service{log: logger}
}

func (s *service) Connect(url, token string) (Session, error) {
	room, err := lksdk.ConnectToRoomWithToken(url, token, &lksdk.RoomCallback{}, lksdk.WithAutoSubscribe(true))
	if err != nil {
		return nil, fmt.Errorf("rtc: connecting room: %w", err)
	}

	s.log.Info("voice room connected", zap.String("room", room.Name()))
	return &roomSession{room: room}, nil
}

type roomSession struct {
	room *lksdk.Room
}

func (r *roomSession) Disconnect() {
	r.room.Disconnect()
}
