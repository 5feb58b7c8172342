/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template, standardizing
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Content Errors
	ErrRoomNotFound:          {Code: ErrRoomNotFound, Message: "Chat room not found."},
	ErrNotInRoom:             {Code: ErrNotInRoom, Message: "Join a room before sending messages."},
	ErrMessageContentTooLong: {Code: ErrMessageContentTooLong, Message: "Message is too long."},

	// 3xxx: Identity and Session Errors
	ErrIdentityMissing: {Code: ErrIdentityMissing, Message: "A user id and username are required to chat.", Status: http.StatusBadRequest},

	// 5xxx: Internal System Errors
	ErrUnknown:      {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrDeliveryMiss: {Code: ErrDeliveryMiss, Message: "Message could not be delivered."},
}
