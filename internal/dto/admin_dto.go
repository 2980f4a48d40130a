package dto

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AdminLoginResponse struct {
	Token string `json:"token"`
}

type GenerateKeyRequest struct {
	Tier string `json:"tier" validate:"required,oneof=free pro"`
}

type GenerateKeyResponse struct {
	ApiKey string `json:"api_key"`
	Tier   string `json:"tier"`
	Limit  int    `json:"limit"`
	Window int    `json:"window"`
}
