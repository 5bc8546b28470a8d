package auth

// Identity is the request-scoped result of bearer-token authentication.
// The zero value is the anonymous identity.
type Identity struct {
	Username string
	Role     string
}

// Anonymous is the identity of a request with no usable token.
var Anonymous = Identity{}

// IsAuthenticated reports whether the request presented a valid token.
func (i Identity) IsAuthenticated() bool {
	return i.Username != ""
}

// IsAdmin reports whether the request is authenticated with the ADMIN role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
