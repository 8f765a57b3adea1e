package feedback

import (
	"errors"
	"strconv"
	"strings"
)

const (
	// AnswerPrefix starts an admin reply: "answer_<userID> <body>".
	AnswerPrefix = "answer_"
	// AnswerCallbackPrefix starts the callback data of the answer button
	// attached to admin notifications.
	AnswerCallbackPrefix = "answer_feedback_"
)

// ErrMalformedEnvelope is returned for replies that carry the prefix but no
// separator or no user id.
var ErrMalformedEnvelope = errors.New("malformed answer envelope")

// Envelope is an admin reply addressed to one user.
type Envelope struct {
	// UserID is the id exactly as written by the admin.
	UserID string
	// Body is everything from the first space on, leading space included.
	Body string
}

// IsAnswer reports whether text is meant as an admin reply.
func IsAnswer(text string) bool {
	return strings.HasPrefix(text, AnswerPrefix)
}

// ParseAnswer splits "answer_<userID> <body>" at the first space. The id has
// no escaping, so it cannot contain a space; the body may.
func ParseAnswer(text string) (Envelope, error) {
	if !IsAnswer(text) {
		return Envelope{}, ErrMalformedEnvelope
	}
	rest := text[len(AnswerPrefix):]
	sep := strings.Index(rest, " ")
	if sep <= 0 {
		return Envelope{}, ErrMalformedEnvelope
	}
	return Envelope{UserID: rest[:sep], Body: rest[sep:]}, nil
}

// ChatID returns the numeric Telegram chat of the addressed user.
func (e Envelope) ChatID() (int64, error) {
	id, err := strconv.ParseInt(e.UserID, 10, 64)
	if err != nil {
		return 0, ErrMalformedEnvelope
	}
	return id, nil
}

// FormatAnswer builds the reply text for userID, the inverse of ParseAnswer
// for bodies without the leading space.
func FormatAnswer(userID int64, body string) string {
	return AnswerPrefix + strconv.FormatInt(userID, 10) + " " + body
}

// AnswerCallbackData builds the callback data of the answer button.
func AnswerCallbackData(userID int64) string {
	return AnswerCallbackPrefix + strconv.FormatInt(userID, 10)
}

// ParseAnswerCallback extracts the user id from answer button data.
func ParseAnswerCallback(data string) (string, bool) {
	if !strings.HasPrefix(data, AnswerCallbackPrefix) {
		return "", false
	}
	id := data[len(AnswerCallbackPrefix):]
	return id, id != ""
}
