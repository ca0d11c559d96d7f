package services

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:TEST-token"

func signedInitData(token string, authDate time.Time, user string) string {
	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("query_id", "AAHdF6IQAAAAAN0XohDhrOrc")
	values.Set("user", user)
	values.Set("hash", SignInitData(token, values))
	return values.Encode()
}

func TestTelegramAuthVerify(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	auth := NewTelegramAuth(testBotToken, time.Hour)
	auth.now = func() time.Time { return now }

	initData := signedInitData(testBotToken, now.Add(-time.Minute), `{"id":42,"first_name":"Ana","username":"ana"}`)

	user, err := auth.Verify(initData)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "Ana", user.FirstName)
	assert.Equal(t, "ana", user.Username)
}

func TestTelegramAuthRejects(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	user := `{"id":42,"first_name":"Ana"}`

	tests := []struct {
		name     string
		initData string
		wantErr  error
	}{
		{"wrong bot token", signedInitData("other:token", now, user), ErrInitDataInvalid},
		{"missing hash", "auth_date=1&user=%7B%7D", ErrInitDataInvalid},
		{"expired", signedInitData(testBotToken, now.Add(-2*time.Hour), user), ErrInitDataExpired},
		{"no user id", signedInitData(testBotToken, now, `{"first_name":"Ana"}`), ErrInitDataInvalid},
		{"tampered", signedInitData(testBotToken, now, user) + "&extra=1", ErrInitDataInvalid},
	}

	auth := NewTelegramAuth(testBotToken, time.Hour)
	auth.now = func() time.Time { return now }

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.Verify(tt.initData)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTelegramAuthWithoutToken(t *testing.T) {
	auth := NewTelegramAuth("", time.Hour)

	_, err := auth.Verify("hash=abc")
	assert.ErrorIs(t, err, ErrInitDataInvalid)
}
