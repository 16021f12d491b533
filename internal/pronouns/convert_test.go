package pronouns

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
)

// testDict mirrors the upstream dictionary shape: a mix of plural and
// singular pronoun sets.
func testDict() Map {
	return Map{
		"any":      {Name: "any", Subject: "Any", Object: "Any", Singular: true},
		"hehim":    {Name: "hehim", Subject: "He", Object: "Him", Singular: false},
		"other":    {Name: "other", Subject: "Other", Object: "Other", Singular: true},
		"sheher":   {Name: "sheher", Subject: "She", Object: "Her", Singular: false},
		"theythem": {Name: "theythem", Subject: "They", Object: "Them", Singular: false},
	}
}

func strPtr(s string) *string { return &s }

func TestConvert_AltPronoun(t *testing.T) {
	user := UserRecord{
		ChannelID:    "123456789",
		ChannelLogin: "user1",
		PronounID:    "hehim",
		AltPronounID: strPtr("any"),
	}
	doc, err := Convert(testDict(), user)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if doc.Display != "He/Any" {
		t.Errorf("Display: got %q, want He/Any", doc.Display)
	}
	if doc.DisplayLower != "he/any" {
		t.Errorf("DisplayLower: got %q, want he/any", doc.DisplayLower)
	}
	if doc.DisplayUpper != "HE/ANY" {
		t.Errorf("DisplayUpper: got %q, want HE/ANY", doc.DisplayUpper)
	}
	if doc.Subject != "He" {
		t.Errorf("Subject: got %q, want He", doc.Subject)
	}
	if doc.SubjectPossessive != "He's" {
		t.Errorf("SubjectPossessive: got %q, want He's", doc.SubjectPossessive)
	}
	if doc.Object != "Him" {
		t.Errorf("Object: got %q, want Him", doc.Object)
	}
	if doc.AltPronoun == nil || doc.AltPronoun.Subject != "Any" {
		t.Errorf("AltPronoun: got %+v, want subject Any", doc.AltPronoun)
	}
}

func TestConvert_TheyThemOverride(t *testing.T) {
	user := UserRecord{ChannelLogin: "user2", PronounID: "theythem"}
	doc, err := Convert(testDict(), user)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// "theythem" is plural in the dictionary; the sentence forms still take
	// the singular-they override via the id match.
	if doc.Display != "They/Them" {
		t.Errorf("Display: got %q, want They/Them", doc.Display)
	}
	if doc.Subject != "They" || doc.SubjectPossessive != "They're" || doc.Object != "Them" {
		t.Errorf("sentence forms: got %q/%q/%q, want They/They're/Them",
			doc.Subject, doc.SubjectPossessive, doc.Object)
	}
	if doc.SubjectPossessiveLower != "they're" {
		t.Errorf("SubjectPossessiveLower: got %q, want they're", doc.SubjectPossessiveLower)
	}
}

func TestConvert_SingularPronoun(t *testing.T) {
	user := UserRecord{ChannelLogin: "user3", PronounID: "other"}
	doc, err := Convert(testDict(), user)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	// Singular pronouns display just the subject, and take the
	// singular-they override in sentence forms.
	if doc.Display != "Other" {
		t.Errorf("Display: got %q, want Other", doc.Display)
	}
	if doc.Subject != "They" || doc.SubjectPossessive != "They're" || doc.Object != "Them" {
		t.Errorf("sentence forms: got %q/%q/%q, want They/They're/Them",
			doc.Subject, doc.SubjectPossessive, doc.Object)
	}
}

func TestConvert_NoAlt_PlainPair(t *testing.T) {
	user := UserRecord{PronounID: "sheher"}
	doc, err := Convert(testDict(), user)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if doc.Display != "She/Her" {
		t.Errorf("Display: got %q, want She/Her", doc.Display)
	}
	if doc.AltPronoun != nil {
		t.Errorf("AltPronoun: got %+v, want nil", doc.AltPronoun)
	}
	if doc.SubjectPossessive != "She's" {
		t.Errorf("SubjectPossessive: got %q, want She's", doc.SubjectPossessive)
	}
}

func TestConvert_NotFoundSentinel(t *testing.T) {
	user := UserRecord{Error: http.StatusNotFound}
	_, err := Convert(testDict(), user)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Convert: got %v, want ErrNotFound", err)
	}
}

func TestConvert_UnknownPronounID(t *testing.T) {
	user := UserRecord{PronounID: "nonexistent"}
	_, err := Convert(testDict(), user)

	var unknown *UnknownIDError
	if !errors.As(err, &unknown) {
		t.Fatalf("Convert: got %v, want UnknownIDError", err)
	}
	if unknown.ID != "nonexistent" {
		t.Errorf("ID: got %q, want nonexistent", unknown.ID)
	}
}

func TestConvert_UnknownAltPronounID(t *testing.T) {
	user := UserRecord{PronounID: "hehim", AltPronounID: strPtr("bogus")}
	_, err := Convert(testDict(), user)

	var unknown *UnknownIDError
	if !errors.As(err, &unknown) {
		t.Fatalf("Convert: got %v, want UnknownIDError", err)
	}
	if unknown.ID != "bogus" {
		t.Errorf("ID: got %q, want bogus", unknown.ID)
	}
}

func TestConvert_EmptyDictionary(t *testing.T) {
	user := UserRecord{PronounID: "hehim"}
	_, err := Convert(Map{}, user)

	var unknown *UnknownIDError
	if !errors.As(err, &unknown) {
		t.Fatalf("Convert with empty dict: got %v, want UnknownIDError", err)
	}
}

func TestConvert_Deterministic(t *testing.T) {
	user := UserRecord{
		ChannelID:    "123456789",
		ChannelLogin: "user1",
		PronounID:    "hehim",
		AltPronounID: strPtr("any"),
	}

	first, err := Convert(testDict(), user)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	second, err := Convert(testDict(), user)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("Convert not deterministic:\n%s\n%s", a, b)
	}
}
