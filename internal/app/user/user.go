/*
Package user contains the data structures describing chat participant identity.

Identity is produced by an external authentication layer and trusted as-is;
this package only models it for use inside the chat system.
*/
package user

import "cinechat/internal/pkg/errs"

// Identity is the authenticated identity bound to a connection at handshake
// time. The server never verifies authenticity, only presence.
type Identity struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`

	// Username is the display name shown in chat rooms.
	Username string `json:"username"`
}

// Validate checks that both identity fields are present. This is the only
// validation the chat core performs on identity.
func (i Identity) Validate() *errs.CustomError {
	if i.ID == "" || i.Username == "" {
		return errs.NewError(errs.ErrIdentityMissing)
	}
	return nil
}
