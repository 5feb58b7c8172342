/*
Package errs provides custom error types and application-level error code constants.

These codes identify specific business or system errors both internally and in
responses sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1002
)

// 2xxx: Room and Content Errors
const (
	// ErrRoomNotFound indicates an operation targeting a room the store no longer has.
	// Arises only from benign teardown races and is absorbed, never surfaced.
	ErrRoomNotFound = 2101

	// ErrNotInRoom indicates a room-scoped operation attempted with no bound room.
	// Treated as a silent no-op at the session layer.
	ErrNotInRoom = 2102

	// ErrMessageContentTooLong indicates that message content exceeded the maximum length.
	ErrMessageContentTooLong = 2201
)

// 3xxx: Identity and Session Errors
const (
	// ErrIdentityMissing indicates the connection handshake lacked the required
	// identity fields. This is the only error that rejects a connection outright.
	ErrIdentityMissing = 3001
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000

	// ErrDeliveryMiss represents a best-effort send failure to one connection.
	// Logged and ignored, never propagated to the sender or other recipients.
	ErrDeliveryMiss = 5001
)
