// Package pronouns holds the domain types for the alejo.io pronoun API and
// the display formatter.
//
// Convert(dict, user) produces the document served to overlay tools:
//   - pronoun / alt_pronoun resolved from the dictionary (unknown IDs fail,
//     they are never defaulted)
//   - display: "He/Him", "She/They", or just "Any" for singular pronouns,
//     plus lower/upper variants
//   - subject / subject_possessive / object sentence forms, with a
//     singular-they override for singular pronouns and "theythem"
//
// A user record carrying the cached 404 sentinel converts to ErrNotFound.
package pronouns
