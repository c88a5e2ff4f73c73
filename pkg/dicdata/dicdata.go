// Package dicdata defines dictionary entries and their class ids.
package dicdata

// PValue is a log-probability-like score; higher is better.
type PValue = float32

// CID is a part-of-speech class id.
type CID uint16

// MID is a semantic class id, used to score what can follow a word.
type MID uint16

const (
	CIDBOS CID = iota
	CIDNoun
	CIDProperNoun
	CIDVerb
	CIDAdjective
	CIDAdverb
	CIDParticle
	CIDAuxiliary
	CIDSymbol
	CIDNumber
	CIDEOS
)

const (
	MIDGeneral MID = iota
	MIDNumber
	MIDEra
	MIDYear
	MIDEOS
)

var cidNames = map[string]CID{
	"noun":      CIDNoun,
	"proper":    CIDProperNoun,
	"verb":      CIDVerb,
	"adjective": CIDAdjective,
	"adverb":    CIDAdverb,
	"particle":  CIDParticle,
	"auxiliary": CIDAuxiliary,
	"symbol":    CIDSymbol,
	"number":    CIDNumber,
}

// ParseCID maps a dictionary column name to its class id.
func ParseCID(name string) (CID, bool) {
	cid, ok := cidNames[name]
	return cid, ok
}

// DicdataElement is one immutable dictionary entry. Ruby is stored in katakana.
type DicdataElement struct {
	Word  string
	Ruby  string
	CID   CID
	MID   MID
	Value PValue
}

// New builds an element; an empty word means the word is its own reading.
func New(word, ruby string, cid CID, mid MID, value PValue) DicdataElement {
	if word == "" {
		word = ruby
	}
	return DicdataElement{Word: word, Ruby: ruby, CID: cid, MID: mid, Value: value}
}

// IsFunctional reports whether the entry attaches to the preceding clause.
func (e DicdataElement) IsFunctional() bool {
	return e.CID == CIDParticle || e.CID == CIDAuxiliary
}

// Key identifies an entry by surface and reading, ignoring its score.
func (e DicdataElement) Key() string {
	return e.Word + "\x00" + e.Ruby
}
