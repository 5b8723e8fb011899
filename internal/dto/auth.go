package dto

// LoginRequest authenticates the device with the configured device key.
type LoginRequest struct {
	DeviceKey string `json:"deviceKey" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"` // seconds
}
