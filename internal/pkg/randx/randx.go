/*
Package randx provides unique identifier generation for chat entities.

Message identifiers combine the sender, the send time, and a random
disambiguator so that two messages from the same user in the same
millisecond still get distinct ids.
*/
package randx

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SystemSenderID is the sender component used for server-generated
// announcement message ids.
const SystemSenderID = "system"

// MessageID builds a unique message identifier of the form
// "<senderID>-<unix-milli>-<uuid>".
func MessageID(senderID string, at time.Time) string {
	return fmt.Sprintf("%s-%d-%s", senderID, at.UnixMilli(), uuid.NewString())
}

// ConnectionID generates an opaque unique identifier for a client connection.
func ConnectionID() string {
	return uuid.NewString()
}
