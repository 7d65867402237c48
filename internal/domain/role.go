package domain

const (
	RoleUser  = "user"
	RoleAgent = "agent"
	RoleAdmin = "admin"
)

const (
	ProviderLocal    = "local"
	ProviderOTP      = "otp"
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
	ProviderApple    = "apple"
)
