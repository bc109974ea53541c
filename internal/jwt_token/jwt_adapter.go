package jwttoken

import (
	authmw "soukscan/pkg/platform/middleware/auth"
)

func ToMiddlewareClaims(claims *Claims) *authmw.JWTClaims {
	return &authmw.JWTClaims{
		Subject:  claims.Subject,
		Username: claims.Username,
		Email:    claims.Email,
		Roles:    claims.Roles,
	}
}

type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return ToMiddlewareClaims(claims), nil
}
