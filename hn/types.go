package hn

import "encoding/json"

// Item kinds as reported by the upstream "type" field.
const (
	KindStory   = "story"
	KindComment = "comment"
	KindJob     = "job"
	KindPoll    = "poll"
	KindPollOpt = "pollopt"
)

// Item represents a Hacker News item (story, comment, etc.)
type Item struct {
	ID          int    `json:"id"`
	Type        string `json:"type,omitempty"`
	By          string `json:"by,omitempty"`
	Time        int64  `json:"time,omitempty"`
	Text        string `json:"text,omitempty"`
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Score       int    `json:"score,omitempty"`
	Descendants int    `json:"descendants,omitempty"`
	Kids        []int  `json:"kids,omitempty"`
	Parent      int    `json:"parent,omitempty"`
	Poll        int    `json:"poll,omitempty"`
	Parts       []int  `json:"parts,omitempty"`
	Dead        bool   `json:"dead,omitempty"`
	Deleted     bool   `json:"deleted,omitempty"`
}

// Hidden reports whether the item is deleted or dead.
func (it *Item) Hidden() bool {
	return it.Deleted || it.Dead
}

// Result is the outcome of fetching one item: either Item is set, or Err
// records why the id could not be materialized (a failure marker).
type Result struct {
	ID   int
	Item *Item
	Err  error
}

// Failed reports whether the result is a failure marker.
func (r Result) Failed() bool {
	return r.Item == nil
}

// MarshalJSON encodes items as-is and failure markers as {"id": id, "error": true}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			ID    int  `json:"id"`
			Error bool `json:"error"`
		}{r.ID, true})
	}
	return json.Marshal(r.Item)
}

// User is a Hacker News user profile.
type User struct {
	ID        string `json:"id"`
	Created   int64  `json:"created"`
	Karma     int    `json:"karma"`
	About     string `json:"about,omitempty"`
	Submitted []int  `json:"submitted,omitempty"`
}

// UserResult is either a profile or a failure marker for the requested handle.
type UserResult struct {
	Handle string
	User   *User
	Err    error
}

func (r UserResult) Failed() bool {
	return r.User == nil
}

func (r UserResult) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			ID    string `json:"id"`
			Error bool   `json:"error"`
		}{r.Handle, true})
	}
	return json.Marshal(r.User)
}

// Updates lists recently changed items and profiles.
type Updates struct {
	Items    []int    `json:"items"`
	Profiles []string `json:"profiles"`
}
