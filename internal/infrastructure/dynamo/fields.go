package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldEnable        = "enable"
	fieldUpdatedAt     = "updated_at"
	fieldPromoted      = "promoted"
	fieldEmailVerified = "email_verified"
	fieldAuthProvider  = "auth_provider"
	fieldRevision      = "revision"
	fieldExpiresAt     = "expires_at"
)
