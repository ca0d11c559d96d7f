// File: /services/telegram_auth.go
package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInitDataInvalid = errors.New("telegram init data is invalid")
	ErrInitDataExpired = errors.New("telegram init data has expired")
)

// TelegramUser is the user object embedded in Web App init data.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// TelegramAuth verifies the init data a Telegram Web App is opened with.
type TelegramAuth struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

func NewTelegramAuth(botToken string, maxAge time.Duration) *TelegramAuth {
	return &TelegramAuth{
		botToken: botToken,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

// Verify checks the init data signature and age and returns the user.
func (a *TelegramAuth) Verify(initData string) (*TelegramUser, error) {
	if a.botToken == "" {
		return nil, fmt.Errorf("%w: bot token not configured", ErrInitDataInvalid)
	}

	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInitDataInvalid, err)
	}
	hash := values.Get("hash")
	if hash == "" {
		return nil, fmt.Errorf("%w: missing hash", ErrInitDataInvalid)
	}

	expected := SignInitData(a.botToken, values)
	if !hmac.Equal([]byte(hash), []byte(expected)) {
		return nil, fmt.Errorf("%w: signature mismatch", ErrInitDataInvalid)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad auth_date", ErrInitDataInvalid)
	}
	if a.maxAge > 0 && a.now().Sub(time.Unix(authDate, 0)) > a.maxAge {
		return nil, ErrInitDataExpired
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return nil, fmt.Errorf("%w: bad user field", ErrInitDataInvalid)
	}
	return &user, nil
}

// SignInitData computes the hex hash Telegram attaches to init data.
// The "hash" key itself is ignored.
func SignInitData(botToken string, values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
