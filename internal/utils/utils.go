package utils

import (
	"crypto/rand"
	"math/big"
	"strings"

	"gofront/internal/models"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func GenerateRandomId(length ...int) (string, error) {
	idLength := 8
	if len(length) > 0 {
		idLength = length[0]
	}

	id := make([]byte, idLength)
	for i := range id {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}

		id[i] = charset[num.Int64()]
	}

	return string(id), nil
}

// MentionsUser reports whether content carries a mention token for the
// user, either in username-at form ("@name") or id-at form ("<@id>").
func MentionsUser(content string, user models.User) bool {
	if user.Username != "" && strings.Contains(content, "@"+user.Username) {
		return true
	}
	return user.ID != "" && strings.Contains(content, "<@"+user.ID+">")
}
