package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	ActionConfirm = "confirm"
	ActionCancel  = "cancel"
)

// LinkSigner produces the keyed tokens embedded in emailed confirm/cancel
// URLs. A token binds one action to one booking id; without the secret no
// valid token can be forged. With no secret configured signing is disabled:
// Sign returns "" and Verify always fails.
type LinkSigner struct {
	secret  string
	baseURL string
}

func NewLinkSigner(secret, baseURL string) *LinkSigner {
	return &LinkSigner{secret: secret, baseURL: baseURL}
}

func (s *LinkSigner) Enabled() bool { return s.secret != "" }

func (s *LinkSigner) Sign(action, bookingID string) string {
	if s.secret == "" {
		return ""
	}
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(action + ":" + bookingID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the expected token and compares in constant time.
func (s *LinkSigner) Verify(action, bookingID, token string) bool {
	if s.secret == "" || token == "" {
		return false
	}
	expected := s.Sign(action, bookingID)
	return hmac.Equal([]byte(expected), []byte(token))
}

func (s *LinkSigner) ConfirmURL(bookingID string) string {
	return fmt.Sprintf("%s/confirm/%s?token=%s", s.baseURL, bookingID, s.Sign(ActionConfirm, bookingID))
}

func (s *LinkSigner) CancelURL(bookingID string) string {
	return fmt.Sprintf("%s/cancel/%s?token=%s", s.baseURL, bookingID, s.Sign(ActionCancel, bookingID))
}
