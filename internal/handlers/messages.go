package handlers

// User-facing messages. Store failures of any kind, not-found included, map to the err* 500 messages.
const (
	errInvalidID          = "invalid id"
	errContentRequired    = "content is required"
	errUpdateContentEmpty = "update content is empty"
	errAllFieldsRequired  = "all fields are required"
	errInvalidCredentials = "invalid email or password"

	errListPosts    = "failed to fetch posts"
	errCreatePost   = "failed to create post"
	errUpdatePost   = "failed to update post"
	errDeletePost   = "failed to delete post"
	errListFutures  = "failed to fetch futures"
	errCreateFuture = "failed to create future"
	errUpdateFuture = "failed to update future"
	errDeleteFuture = "failed to delete future"
	errRegister     = "registration failed"
	errLogin        = "login failed"
	errActivity     = "failed to load activity"

	errFromInvalid  = "invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errRange        = "'from' must be <= 'to'"
	errUnknownType  = "unknown event type"
	errInvalidLimit = "'limit' must be a non-negative integer"
	errLiveDisabled = "live updates are disabled"

	msgPostDeleted   = "post deleted"
	msgFutureDeleted = "future deleted"
	msgRegistered    = "user registered"
	msgLoggedIn      = "login successful"
)
