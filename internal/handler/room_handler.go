/*
Package handler provides the HTTP handlers and routing for the CineChat server.

This file serves the fixed room catalog. The catalog is presentation
metadata for discoverability; live member counts come from the room store
and a cataloged room may have zero members.
*/
package handler

import (
	"net/http"

	"cinechat/internal/pkg/resp"
)

// HandleListRooms returns the room catalog enriched with live member counts.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Catalog.Summaries(deps.Hub))
	}
}
