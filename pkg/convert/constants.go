package convert

import "github.com/bastiangx/kanaserve/pkg/dicdata"

// Script variant scores. These are tuned by hand against real input and
// only make sense relative to each other and to dictionary values.
const (
	katakanaBaseValue  dicdata.PValue = -14
	hiraganaValue      dicdata.PValue = -14.5
	uppercaseValue     dicdata.PValue = -14.6
	fullWidthValue     dicdata.PValue = -14.7
	halfWidthKanaValue dicdata.PValue = -15
	// variantDataValue is stored on the backing element of the uppercase,
	// full-width and half-width variants.
	variantDataValue dicdata.PValue = -15
)

// katakanaLikelihood lists characters common in loanwords. Each occurrence
// multiplies the katakana score by factor, so smaller is more likely.
var katakanaLikelihood = []struct {
	chars  string
	factor dicdata.PValue
}{
	{"プヴペィフ", 0.5},
	{"ュピポ", 0.6},
	{"パォグーム", 0.7},
}

// Foreign completion scores: the literal input sits at the penalty and
// completions spread below it across foreignSpread.
const (
	foreignPenalty         dicdata.PValue = -5
	topLevelForeignPenalty dicdata.PValue = -10
	foreignSpread          dicdata.PValue = -10
)

// Structural candidate scores.
const (
	dateValue       dicdata.PValue = -18
	emailValue      dicdata.PValue = -20
	typographyValue dicdata.PValue = -15
	unicodeValue    dicdata.PValue = -15
	versionValue    dicdata.PValue = -30
	// zeroHintBonus rewards a zero-hint continuation whose first character
	// the re-scoring model also predicts.
	zeroHintBonus dicdata.PValue = 1
)

// Ranking limits.
const (
	sentenceLimit    = 5
	predictionLimit  = 3
	prefixLimit      = 5
	clauseLimit      = 5
	zeroHintLimit    = 3
	predictionRounds = 2
	predictionNBest  = 5
	// exactMatchWindow is how many leading entries must contain an exact
	// reading match; exactMatchSlot is where a missing one is inserted.
	exactMatchWindow = 3
	exactMatchSlot   = 2
)
