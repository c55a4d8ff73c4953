package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminRole 管理端令牌需要携带的角色
const AdminRole = "admin"

// ErrTokenInvalid 令牌无效
var ErrTokenInvalid = errors.New("无效的 token")

// CustomerClaims 顾客令牌声明（由外部认证服务签发）
type CustomerClaims struct {
	CustomerID uint   `json:"customer_id"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// AdminClaims 管理员令牌声明
type AdminClaims struct {
	AdminID uint   `json:"admin_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

func registeredClaims(issuer string, ttl time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    strings.TrimSpace(issuer),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

// SignCustomerToken 签发顾客令牌，供种子数据与测试使用
func SignCustomerToken(secret, issuer string, customerID uint, email string, ttl time.Duration) (string, error) {
	claims := CustomerClaims{
		CustomerID:       customerID,
		Email:            strings.ToLower(strings.TrimSpace(email)),
		RegisteredClaims: registeredClaims(issuer, ttl),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SignAdminToken 签发管理员令牌
func SignAdminToken(secret, issuer string, adminID uint, ttl time.Duration) (string, error) {
	claims := AdminClaims{
		AdminID:          adminID,
		Role:             AdminRole,
		RegisteredClaims: registeredClaims(issuer, ttl),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseCustomerToken 解析顾客令牌
func ParseCustomerToken(secret, issuer, tokenString string) (*CustomerClaims, error) {
	claims := &CustomerClaims{}
	if err := parseToken(secret, issuer, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.CustomerID == 0 {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseAdminToken 解析管理员令牌，角色必须为 admin
func ParseAdminToken(secret, issuer, tokenString string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	if err := parseToken(secret, issuer, tokenString, claims); err != nil {
		return nil, err
	}
	if claims.AdminID == 0 || claims.Role != AdminRole {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func parseToken(secret, issuer, tokenString string, claims jwt.Claims) error {
	if strings.TrimSpace(secret) == "" || strings.TrimSpace(tokenString) == "" {
		return ErrTokenInvalid
	}
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer = strings.TrimSpace(issuer); issuer != "" {
		options = append(options, jwt.WithIssuer(issuer))
	}
	token, err := jwt.NewParser(options...).ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}
