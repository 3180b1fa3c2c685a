package expr

// Pronoun placeholder names, usable both as template placeholders and as
// names in inline code.
const (
	PronounSubject    = "pronoun.subject"
	PronounObject     = "pronoun.object"
	PronounPossessive = "pronoun.possessive"
	PronounReflexive  = "pronoun.reflexive"
)

type pronounSet struct {
	subject, object, possessive, reflexive string
}

var pronounTable = map[string]pronounSet{
	"male":   {"he", "him", "his", "himself"},
	"female": {"she", "her", "hers", "herself"},
	// The neutral row doubles as the default for unset or unknown genders.
	"neutral": {"they", "them", "theirs", "themself"},
}

// pronounFor returns the pronoun for a reserved placeholder name, or
// false if name is not a pronoun placeholder.
func pronounFor(name, gender string) (string, bool) {
	set, ok := pronounTable[gender]
	if !ok {
		set = pronounTable["neutral"]
	}
	switch name {
	case PronounSubject:
		return set.subject, true
	case PronounObject:
		return set.object, true
	case PronounPossessive:
		return set.possessive, true
	case PronounReflexive:
		return set.reflexive, true
	}
	return "", false
}
