/*
Package catalog exposes the fixed, externally configured list of chat rooms
surfaced to clients for discoverability.

Catalog entries are presentation metadata only. They do not create rooms in
the room store, and a cataloged room may have zero live members.
*/
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/samber/lo"
)

// Room describes one discoverable chat room.
type Room struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Summary is a catalog Room enriched with its live member count.
type Summary struct {
	Room
	Participants int `json:"participants"`
}

// MemberCounter reports the current member count of a room. Zero for rooms
// that do not exist.
type MemberCounter interface {
	MemberCount(roomID string) int
}

// defaultRooms is the built-in catalog, matching the rooms the frontend ships with.
var defaultRooms = []Room{
	{ID: "global", Name: "Global Chat", Description: "Discuss movies with everyone"},
	{ID: "action", Name: "Action Movies", Description: "Explosions and adrenaline"},
	{ID: "horror", Name: "Horror Films", Description: "Things that go bump in the night"},
	{ID: "classics", Name: "Classic Cinema", Description: "Timeless masterpieces"},
}

// Catalog holds the configured room list.
type Catalog struct {
	rooms []Room
}

// Load builds the catalog. When path is non-empty the JSON rooms file at that
// location replaces the built-in list; entries missing an id are rejected.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{rooms: defaultRooms}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read room catalog file %s: %w", path, err)
	}

	var rooms []Room
	if err := json.Unmarshal(data, &rooms); err != nil {
		return nil, fmt.Errorf("failed to parse room catalog file %s: %w", path, err)
	}

	if len(rooms) == 0 {
		return nil, fmt.Errorf("room catalog file %s contains no rooms", path)
	}

	if _, invalid := lo.Find(rooms, func(r Room) bool { return r.ID == "" }); invalid {
		return nil, fmt.Errorf("room catalog file %s contains a room without an id", path)
	}

	return &Catalog{rooms: rooms}, nil
}

// Rooms returns the configured room list.
func (c *Catalog) Rooms() []Room {
	return c.rooms
}

// Summaries returns the catalog enriched with live member counts.
func (c *Catalog) Summaries(counts MemberCounter) []Summary {
	return lo.Map(c.rooms, func(r Room, _ int) Summary {
		return Summary{Room: r, Participants: counts.MemberCount(r.ID)}
	})
}
