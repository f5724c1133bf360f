package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

// Voice token actions.
const (
	VoiceActionLogin = "login"
	VoiceActionJoin  = "join"
)

const defaultVoiceTokenTTL = 90 * time.Second

// ErrVoiceNotConfigured is returned when issuer, domain or secret is missing.
var ErrVoiceNotConfigured = errors.New("voice chat is not configured")

// VivoxService signs Vivox access tokens. Each room has one group voice channel
// named after its room code.
type VivoxService struct {
	secret string
	issuer string
	domain string
	ttl    time.Duration
	now    func() time.Time
}

// NewVivoxService builds a token signer. A zero ttl uses a short default.
func NewVivoxService(secret, issuer, domain string, ttl time.Duration) *VivoxService {
	if ttl <= 0 {
		ttl = defaultVoiceTokenTTL
	}
	return &VivoxService{secret: secret, issuer: issuer, domain: domain, ttl: ttl, now: time.Now}
}

// Enabled reports whether tokens can be signed.
func (s *VivoxService) Enabled() bool {
	return s != nil && s.secret != "" && s.issuer != "" && s.domain != ""
}

// LoginToken signs a login token for userID.
func (s *VivoxService) LoginToken(userID string) (string, error) {
	return s.sign(userID, VoiceActionLogin, "")
}

// JoinToken signs a token letting userID join the voice channel of room code.
func (s *VivoxService) JoinToken(userID, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return "", fmt.Errorf("%w: room code is required for join tokens", ErrNotFound)
	}
	return s.sign(userID, VoiceActionJoin, RoomChannel(code))
}

// RoomChannel is the voice channel name used for a room.
func RoomChannel(code string) string {
	return "shanghai-" + strings.ToLower(code)
}

func (s *VivoxService) sign(userID, action, channel string) (string, error) {
	if !s.Enabled() {
		return "", ErrVoiceNotConfigured
	}
	if userID == "" {
		return "", fmt.Errorf("%w: user is required", ErrNotAuthorized)
	}

	from := s.userURI(userID)
	to := from
	if action == VoiceActionJoin {
		to = "sip:confctl-g-" + channel + "@" + s.domain
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"exp": s.now().Add(s.ttl).Unix(),
		"vxa": action,
		"vxi": uuid.NewString(),
		"f":   from,
		"t":   to,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

func (s *VivoxService) userURI(userID string) string {
	return "sip:." + s.issuer + "." + userID + ".@" + s.domain
}
