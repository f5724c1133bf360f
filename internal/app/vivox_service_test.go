package app

import (
	"errors"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func parseVoiceClaims(t *testing.T, token, secret string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			t.Fatalf("signing method = %v", tok.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	return parsed.Claims.(jwt.MapClaims)
}

func TestVivoxLoginToken(t *testing.T) {
	svc := NewVivoxService("secret", "shanghai", "vivox.example", 0)
	tok, err := svc.LoginToken("user1")
	if err != nil {
		t.Fatalf("LoginToken error: %v", err)
	}
	claims := parseVoiceClaims(t, tok, "secret")
	want := "sip:.shanghai.user1.@vivox.example"
	if claims["vxa"] != VoiceActionLogin || claims["f"] != want || claims["t"] != want || claims["sub"] != "user1" {
		t.Fatalf("claims = %v", claims)
	}
}

func TestVivoxJoinTokenIsScopedToRoom(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	svc := NewVivoxService("secret", "shanghai", "vivox.example", time.Minute)
	svc.now = func() time.Time { return now }

	tok, err := svc.JoinToken("user1", " ab12cd ")
	if err != nil {
		t.Fatalf("JoinToken error: %v", err)
	}
	claims := parseVoiceClaims(t, tok, "secret")
	if claims["t"] != "sip:confctl-g-shanghai-ab12cd@vivox.example" {
		t.Fatalf("t = %v", claims["t"])
	}
	if exp := int64(claims["exp"].(float64)); exp != now.Add(time.Minute).Unix() {
		t.Fatalf("exp = %d", exp)
	}
}

func TestVivoxRejects(t *testing.T) {
	tests := []struct {
		name string
		svc  *VivoxService
		fn   func(*VivoxService) error
		want error
	}{
		{"Unconfigured", NewVivoxService("", "i", "d", 0), func(s *VivoxService) error { _, err := s.LoginToken("u"); return err }, ErrVoiceNotConfigured},
		{"NilService", nil, func(s *VivoxService) error { _, err := s.LoginToken("u"); return err }, ErrVoiceNotConfigured},
		{"NoUser", NewVivoxService("s", "i", "d", 0), func(s *VivoxService) error { _, err := s.LoginToken(""); return err }, ErrNotAuthorized},
		{"NoRoom", NewVivoxService("s", "i", "d", 0), func(s *VivoxService) error { _, err := s.JoinToken("u", "  "); return err }, ErrNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(tt.svc); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
