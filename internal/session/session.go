package session

import "github.com/google/uuid"

// Identity holds the opaque correlation token for one client run. The
// backend treats it as an equality-comparable string and nothing more.
type Identity struct {
	token string
}

func New() Identity {
	return Identity{token: uuid.NewString()}
}

func (id Identity) Token() string { return id.token }
