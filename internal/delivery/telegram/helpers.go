package telegram

import (
	"errors"
	"strconv"
	"strings"
)

const userIDPrefix = "tg:"

var ErrNotTelegramUser = errors.New("not a telegram user id")

// UserID maps a Telegram chat to the bot's user identifier.
func UserID(chatID int64) string {
	return userIDPrefix + strconv.FormatInt(chatID, 10)
}

// ChatID is the inverse of UserID.
func ChatID(userID string) (int64, error) {
	raw, ok := strings.CutPrefix(userID, userIDPrefix)
	if !ok {
		return 0, ErrNotTelegramUser
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrNotTelegramUser
	}
	return id, nil
}
