package parser

import "errors"

var (
	ErrUnknownVerb         = errors.New("unknown verb")
	ErrUnknownObjectWord   = errors.New("unknown object word")
	ErrObjectNotVisible    = errors.New("object not visible")
	ErrUnresolvedChoice    = errors.New("unresolved choice")
	ErrInvalidPreposition  = errors.New("invalid preposition")
	ErrMissingPriorCommand = errors.New("missing prior command")
	ErrNoUnknownWord       = errors.New("no unknown word to correct")
	ErrMissingReplacement  = errors.New("missing replacement word")
	ErrUnboundPronoun      = errors.New("unbound pronoun")
	ErrNotASentence        = errors.New("not a sentence")
	ErrNestedReplay        = errors.New("nested again or oops")
)

// ParseError is a per-turn rejection. Error returns the text shown to the
// player; errors.Is matches the wrapped sentinel.
type ParseError struct {
	Kind    error
	Word    string
	Message string

	shown bool
}

func (e *ParseError) Error() string { return e.Message }
func (e *ParseError) Unwrap() error { return e.Kind }

func unknownWord(kind error, word string) *ParseError {
	return &ParseError{Kind: kind, Word: word, Message: "I don't know the word \"" + word + "\"."}
}

func notVisible(word string) *ParseError {
	return &ParseError{Kind: ErrObjectNotVisible, Word: word, Message: "You can't see any " + word + " here!"}
}

func unboundPronoun(word string) *ParseError {
	return &ParseError{Kind: ErrUnboundPronoun, Word: word, Message: "I don't know what \"" + word + "\" refers to."}
}

func simpleError(kind error, msg string) *ParseError {
	return &ParseError{Kind: kind, Message: msg}
}

// unresolvedChoice is reported by the disambiguator itself.
func unresolvedChoice() *ParseError {
	return &ParseError{Kind: ErrUnresolvedChoice, Message: "I don't understand that choice.", shown: true}
}

// Kind names the failure class of err for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownVerb):
		return "unknown_verb"
	case errors.Is(err, ErrUnknownObjectWord):
		return "unknown_object_word"
	case errors.Is(err, ErrObjectNotVisible):
		return "object_not_visible"
	case errors.Is(err, ErrUnresolvedChoice):
		return "unresolved_choice"
	case errors.Is(err, ErrInvalidPreposition):
		return "invalid_preposition"
	case errors.Is(err, ErrMissingPriorCommand):
		return "missing_prior_command"
	case errors.Is(err, ErrNoUnknownWord):
		return "no_unknown_word"
	case errors.Is(err, ErrMissingReplacement):
		return "missing_replacement"
	case errors.Is(err, ErrUnboundPronoun):
		return "unbound_pronoun"
	case errors.Is(err, ErrNotASentence):
		return "not_a_sentence"
	case errors.Is(err, ErrNestedReplay):
		return "nested_replay"
	default:
		return "other"
	}
}
