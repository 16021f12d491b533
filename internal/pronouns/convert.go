package pronouns

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound marks a user whose upstream record is the cached 404 sentinel.
var ErrNotFound = errors.New("user has no pronouns set")

// UnknownIDError is returned when a user record references a pronoun ID that
// is absent from the dictionary. That only happens when the upstream data is
// inconsistent (or the local dictionary copy is badly stale), so callers
// treat it like any other upstream failure. No default pronoun is guessed.
type UnknownIDError struct {
	ID string
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("pronoun id %q not in dictionary", e.ID)
}

// singular-they override forms, applied for singular pronouns and for the
// literal "theythem" id (so "any"/"other" also read naturally in sentences).
const (
	theySubject    = "They"
	theyPossessive = "They're"
	theyObject     = "Them"
)

// Convert combines the pronoun dictionary and one user record into the
// display document. It is a pure function: identical inputs yield identical
// output.
func Convert(dict Map, user UserRecord) (*Document, error) {
	if user.NotFound() {
		return nil, ErrNotFound
	}

	pronoun, ok := dict[user.PronounID]
	if !ok {
		return nil, &UnknownIDError{ID: user.PronounID}
	}

	doc := &Document{
		ChannelID:    user.ChannelID,
		ChannelLogin: user.ChannelLogin,
		PronounID:    user.PronounID,
		AltPronounID: user.AltPronounID,
		Pronoun:      pronoun,
	}

	if user.AltPronounID != nil {
		alt, ok := dict[*user.AltPronounID]
		if !ok {
			return nil, &UnknownIDError{ID: *user.AltPronounID}
		}
		doc.AltPronoun = &alt
	}

	switch {
	case pronoun.Singular:
		doc.Display = pronoun.Subject
	case doc.AltPronoun != nil:
		doc.Display = pronoun.Subject + "/" + doc.AltPronoun.Subject
	default:
		doc.Display = pronoun.Subject + "/" + pronoun.Object
	}
	doc.DisplayLower = strings.ToLower(doc.Display)
	doc.DisplayUpper = strings.ToUpper(doc.Display)

	if pronoun.Singular || user.PronounID == "theythem" {
		doc.Subject = theySubject
		doc.SubjectPossessive = theyPossessive
		doc.Object = theyObject
	} else {
		doc.Subject = pronoun.Subject
		doc.SubjectPossessive = pronoun.Subject + "'s"
		doc.Object = pronoun.Object
	}
	doc.SubjectLower = strings.ToLower(doc.Subject)
	doc.SubjectPossessiveLower = strings.ToLower(doc.SubjectPossessive)
	doc.ObjectLower = strings.ToLower(doc.Object)

	return doc, nil
}
