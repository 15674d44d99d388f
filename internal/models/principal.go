package models

// Principal represents an authenticated end user as known to the identity
// provider. It is owned by the identity bridge and read-only to the rest of
// the application: each sign-in or refresh replaces the value wholesale.
type Principal struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// Session is the application-visible auth state: the current principal (nil
// when signed out) and whether the first identity notification is still
// pending. While Loading is true the principal is not authoritative.
type Session struct {
	Principal *Principal
	Loading   bool
}

// SignedIn reports whether the session has a settled, present principal.
func (s Session) SignedIn() bool {
	return !s.Loading && s.Principal != nil
}
