package auth

import (
	"testing"
	"time"
)

func TestJWT_RoundTrip(t *testing.T) {
	tok, err := SignJWT(42, "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	uid, err := ParseJWT(tok, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != 42 {
		t.Fatalf("uid = %d", uid)
	}
}

func TestJWT_Rejections(t *testing.T) {
	tok, _ := SignJWT(1, "secret", time.Hour)

	if _, err := ParseJWT(tok, "other-secret"); err == nil {
		t.Fatal("wrong secret accepted")
	}
	if _, err := ParseJWT("not-a-token", "secret"); err == nil {
		t.Fatal("garbage token accepted")
	}

	expired, _ := SignJWT(1, "secret", -time.Minute)
	if _, err := ParseJWT(expired, "secret"); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(h, "hunter2hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(h, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
