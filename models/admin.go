package models

import "time"

// VerifyPinRequest is the PIN modal submission
type VerifyPinRequest struct {
	Pin string `json:"pin" form:"pin" validate:"required"`
}

// AdminSession is returned after a successful PIN check
type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
