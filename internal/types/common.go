package types

// HTTP Header Constants
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "
	UserCtxName  = "user"
)

// UserContext is the resolved acting identity attached to a request.
// Username is the canonical actor key; every document path and serialization
// key in the interaction coordinators derives from it.
type UserContext struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar"`
	CreatedDate int64  `json:"createdDate"`
}
