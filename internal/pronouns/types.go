package pronouns

import "net/http"

// Pronoun is one entry of the upstream pronoun dictionary.
type Pronoun struct {
	Name     string `json:"name"`
	Subject  string `json:"subject"`
	Object   string `json:"object"`
	Singular bool   `json:"singular"`
}

// Map is the full pronoun dictionary, keyed by pronoun ID ("hehim",
// "theythem", ...). An empty Map is valid — the formatter then fails with
// UnknownIDError for any lookup, it never invents a default.
type Map map[string]Pronoun

// UserRecord is one user's pronoun preference as returned by
// GET {base}/users/{login}.
//
// Error mirrors the cached not-found sentinel: a confirmed upstream 404 is
// stored as UserRecord{Error: 404} and expires under the normal TTL rules,
// so repeated lookups of unregistered users don't hammer the upstream.
type UserRecord struct {
	ChannelID    string  `json:"channel_id"`
	ChannelLogin string  `json:"channel_login"`
	PronounID    string  `json:"pronoun_id"`
	AltPronounID *string `json:"alt_pronoun_id"`
	Error        int     `json:"error,omitempty"`
}

// NotFound reports whether the record is the cached not-found sentinel.
func (u UserRecord) NotFound() bool {
	return u.Error == http.StatusNotFound
}

// Document is the display-ready response served to overlay/bot tools.
// Field order is the wire order of the JSON body.
type Document struct {
	ChannelID    string  `json:"channel_id"`
	ChannelLogin string  `json:"channel_login"`
	PronounID    string  `json:"pronoun_id"`
	AltPronounID *string `json:"alt_pronoun_id"`

	Pronoun    Pronoun  `json:"pronoun"`
	AltPronoun *Pronoun `json:"alt_pronoun"`

	Display      string `json:"display"`
	DisplayLower string `json:"display_lower"`
	DisplayUpper string `json:"display_upper"`

	Subject           string `json:"subject"`
	SubjectPossessive string `json:"subject_possessive"`
	Object            string `json:"object"`

	SubjectLower           string `json:"subject_lower"`
	SubjectPossessiveLower string `json:"subject_possessive_lower"`
	ObjectLower            string `json:"object_lower"`
}
