package constants

import "time"

// Context keys shared between middleware and handlers.
const (
	ContextKeyUserID = "user_id"
	ContextKeyUser   = "user"
)

// AuthCookieName carries the signed session token.
const AuthCookieName = "auth_token"

// DefaultTokenTTL is the validity of an issued token and the max-age of its cookie.
const DefaultTokenTTL = 24 * time.Hour

const (
	// BcryptCost matches the cost used for every stored hash.
	BcryptCost = 10

	// MaxUsernameSuffix bounds the search for a free username.
	MaxUsernameSuffix = 1000

	// MaxSignupAttempts bounds retries when a concurrent signup takes the chosen name.
	MaxSignupAttempts = 3
)

// Gamification
const (
	PointsPerCompletedTask = 10
	PointsPerLevel         = 100
	InitialLevel           = 1
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

const (
	// DefaultUploadMaxBytes caps a single multipart upload.
	DefaultUploadMaxBytes = 10 << 20

	// RecommendationListLimit is how many companion messages are returned.
	RecommendationListLimit = 10

	// MaxPendingTasksInPrompt limits the task titles sent to the AI model.
	MaxPendingTasksInPrompt = 15
)
