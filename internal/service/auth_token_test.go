package service

import (
	"errors"
	"testing"
	"time"
)

func TestCustomerTokenRoundTrip(t *testing.T) {
	token, err := SignCustomerToken("secret", "bakery", 42, "An@Example.com", time.Hour)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	claims, err := ParseCustomerToken("secret", "bakery", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.CustomerID != 42 || claims.Email != "an@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if _, err := ParseCustomerToken("other", "bakery", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong secret must fail, got %v", err)
	}
	if _, err := ParseCustomerToken("secret", "someone-else", token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong issuer must fail, got %v", err)
	}
}

func TestAdminTokenRequiresRole(t *testing.T) {
	token, err := SignAdminToken("admin-secret", "", 1, time.Hour)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := ParseAdminToken("admin-secret", "", token); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	customerToken, _ := SignCustomerToken("admin-secret", "", 1, "", time.Hour)
	if _, err := ParseAdminToken("admin-secret", "", customerToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("customer token must not pass admin check, got %v", err)
	}
	expired, _ := SignAdminToken("admin-secret", "", 1, -time.Minute)
	if _, err := ParseAdminToken("admin-secret", "", expired); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expired token must fail, got %v", err)
	}
}
