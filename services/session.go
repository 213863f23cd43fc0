package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log"
	"strconv"
	"strings"
	"time"
)

// SessionTTL bounds how long an admin session cookie stays valid. Matches the
// cookie max-age set at login.
const SessionTTL = 7 * 24 * time.Hour

// SessionService issues and verifies the signed values carried in the admin
// session cookie: base64(user|unix-ts) + "." + HMAC hex. No server-side
// session state. An empty secret disables sessions entirely: Issue returns ""
// and Verify rejects everything, so cookies are never minted with an empty
// HMAC key.
type SessionService struct {
	secret string
}

func NewSessionService(secret string) *SessionService {
	if secret == "" {
		log.Println("⚠️  Session secret is empty: admin sessions are disabled")
	}
	return &SessionService{secret: secret}
}

func (s *SessionService) Issue(user string) string {
	if s.secret == "" {
		return ""
	}
	payload := base64.RawURLEncoding.EncodeToString([]byte(user + "|" + strconv.FormatInt(time.Now().UTC().Unix(), 10)))
	return payload + "." + s.sign(payload)
}

// Verify returns the user the token was issued for and whether the token is
// authentic and unexpired.
func (s *SessionService) Verify(token string) (string, bool) {
	if s.secret == "" {
		return "", false
	}
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return "", false
	}
	if !hmac.Equal([]byte(s.sign(payload)), []byte(sig)) {
		return "", false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	user, tsStr, ok := strings.Cut(string(raw), "|")
	if !ok || user == "" {
		return "", false
	}
	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return "", false
	}
	if time.Since(time.Unix(ts, 0)) > SessionTTL {
		return "", false
	}
	return user, true
}

func (s *SessionService) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte("admin-session:" + payload))
	return hex.EncodeToString(mac.Sum(nil))
}
