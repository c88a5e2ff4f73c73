/*
Package server implements msgpack IPC for kana-kanji conversion.

The server reads a stream of msgpack maps from stdin and answers each one on
stdout. One server owns one conversion session, so a client drives a single
composition at a time and every request is answered before the next one is
read.

# IPC

Every request carries an id and an action. Conversion requests send the
whole composing input, either as text in one style:

	{"id": "r1", "action": "convert", "text": "kanji", "style": "roman"}

or element by element when styles are mixed:

	{"id": "r2", "action": "convert", "input": [{"c": "か", "s": "kana"}, {"c": "n", "s": "roman"}]}

The response lists the ranked candidates and the first-clause candidates
separately, with the time taken in microseconds:

	{"id": "r1", "m": [{"t": "漢字", "v": -9, "c": 5}], "f": [...], "n": 12, "us": 840}

A candidate may carry post-selection actions, e.g. moving the caret back
between a pair of brackets:

	{"t": "「」", "v": -7, "c": 3, "a": [{"k": "move_cursor", "o": -1}]}

Selecting a candidate is reported back by index. "commit" picks from the
main list, "complete_clause" from the first-clause list. When the chosen
candidate covers only part of the input the remainder is converted right
away and returned as a normal conversion response.

	{"id": "r3", "action": "complete_clause", "index": 0}

"reset" ends the composition, "language" switches the keyboard language and
starts loading its word list, "health" reports the session id.

Failures are answered with an error message and an HTTP-like code:

	{"id": "r4", "e": "unknown action: spin", "c": 400}
*/
package server

// InputElement is one typed character. Style is "kana" or "roman".
type InputElement struct {
	Char  string `msgpack:"c"`
	Style string `msgpack:"s"`
}

// OptionOverrides replaces configured request options for one request.
type OptionOverrides struct {
	NBest               *int  `msgpack:"n_best,omitempty"`
	TypographyLetter    *bool `msgpack:"typography_letter,omitempty"`
	UnicodeCandidate    *bool `msgpack:"unicode_candidate,omitempty"`
	FullWidthRoman      *bool `msgpack:"full_width_roman,omitempty"`
	HalfWidthKana       *bool `msgpack:"half_width_kana,omitempty"`
	JapanesePrediction  *bool `msgpack:"japanese_prediction,omitempty"`
	EnglishPrediction   *bool `msgpack:"english_prediction,omitempty"`
	EnglishInRoman2Kana *bool `msgpack:"english_in_roman2kana,omitempty"`
}

// Request is any client message; which fields matter depends on Action.
type Request struct {
	ID       string           `msgpack:"id"`
	Action   string           `msgpack:"action"`
	Text     string           `msgpack:"text,omitempty"`
	Style    string           `msgpack:"style,omitempty"`
	Input    []InputElement   `msgpack:"input,omitempty"`
	Index    *int             `msgpack:"index,omitempty"`
	Language string           `msgpack:"language,omitempty"`
	Options  *OptionOverrides `msgpack:"options,omitempty"`
}

// Action is a post-selection action of a candidate.
type Action struct {
	Kind   string `msgpack:"k"`
	Offset int    `msgpack:"o"`
}

// Candidate - minimal candidate response
type Candidate struct {
	Text    string   `msgpack:"t"`
	Value   float32  `msgpack:"v"`
	Count   int      `msgpack:"c"`
	Actions []Action `msgpack:"a,omitempty"`
}

// ConvertResponse answers convert, and commit requests that leave input behind.
type ConvertResponse struct {
	ID          string      `msgpack:"id"`
	Main        []Candidate `msgpack:"m"`
	FirstClause []Candidate `msgpack:"f"`
	Count       int         `msgpack:"n"`
	TimeTaken   int64       `msgpack:"us"`
}

// StatusResponse answers everything else.
type StatusResponse struct {
	ID       string `msgpack:"id"`
	Status   string `msgpack:"status"`
	Session  string `msgpack:"session,omitempty"`
	Language string `msgpack:"language,omitempty"`
	State    string `msgpack:"state,omitempty"`
}

// ErrorResponse holds basic error information
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
