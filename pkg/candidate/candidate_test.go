package candidate

import (
	"testing"
	"time"

	"github.com/bastiangx/kanaserve/pkg/dicdata"
	"github.com/stretchr/testify/assert"
)

func TestRubyConcatenatesData(t *testing.T) {
	c := Candidate{
		Text: "変換する",
		Data: []dicdata.DicdataElement{
			dicdata.New("変換", "ヘンカン", dicdata.CIDNoun, dicdata.MIDGeneral, -5),
			dicdata.New("する", "スル", dicdata.CIDVerb, dicdata.MIDGeneral, -3),
		},
	}
	assert.Equal(t, "ヘンカンスル", c.Ruby())

	last, ok := c.LastData()
	assert.True(t, ok)
	assert.Equal(t, "する", last.Word)
}

func TestWithActionsCopies(t *testing.T) {
	original := Candidate{Text: "「」"}
	annotated := original.WithActions(MoveCursor(-1))

	assert.Empty(t, original.Actions)
	assert.Equal(t, []CompleteAction{{Kind: ActionMoveCursor, Offset: -1}}, annotated.Actions)
}

func TestParseTemplate(t *testing.T) {
	now := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)

	c := ParseTemplate(Candidate{Text: `<date format="2006/01/02"/>`}, now)
	assert.Equal(t, "2024/05/06", c.Text)

	plain := Candidate{Text: "日付"}
	assert.Equal(t, plain, ParseTemplate(plain, now))
}
