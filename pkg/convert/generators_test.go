package convert

import (
	"testing"

	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/bastiangx/kanaserve/pkg/lattice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKatakanaScore(t *testing.T) {
	assert.Equal(t, dicdata.PValue(1), katakanaScore("カンジ"))
	assert.Equal(t, dicdata.PValue(0.5), katakanaScore("プ"))
	assert.InDelta(t, 0.5*0.6*0.7, katakanaScore("プピー"), 1e-6)
}

func TestScriptVariantCandidates(t *testing.T) {
	got := scriptVariantCandidates(kana.FromKana("ぷりん"), DefaultOptions())
	require.Len(t, got, 3)
	assert.Equal(t, "プリン", got[0].Text)
	assert.Equal(t, dicdata.PValue(-7), got[0].Value)
	assert.Equal(t, "ぷりん", got[1].Text)
	assert.Equal(t, dicdata.PValue(hiraganaValue), got[1].Value)
	assert.Equal(t, "プリン", got[2].Text)
	for _, c := range got {
		assert.Equal(t, "プリン", c.Ruby())
		assert.Equal(t, 3, c.CorrespondingCount)
	}

	opts := DefaultOptions()
	opts.FullWidthRoman = true
	opts.HalfWidthKana = true
	got = scriptVariantCandidates(kana.FromKana("abc"), opts)
	assert.Equal(t, []string{"abc", "abc", "ABC", "ａｂｃ", "abc"}, texts(got))
	assert.Equal(t, dicdata.PValue(uppercaseValue), got[2].Value)
	assert.Equal(t, dicdata.PValue(variantDataValue), got[2].Data[0].Value)
	assert.Equal(t, dicdata.PValue(fullWidthValue), got[3].Value)

	got = scriptVariantCandidates(kana.FromKana("あ"), opts)
	assert.Equal(t, "ｱ", got[4].Text)
	assert.Equal(t, dicdata.PValue(halfWidthKanaValue), got[4].Value)
}

func TestEmptyLatticeFallsBackToVariants(t *testing.T) {
	c, _ := newTestConverter(t)
	opts := plainOptions()
	opts.UnicodeCandidate = true

	main, first := c.assemble(kana.FromKana("U+3042"), lattice.Result{}, opts)
	assert.Equal(t, main, first)
	assert.Contains(t, texts(main), "あ")
	assert.Contains(t, texts(main), "U+3042")
}
