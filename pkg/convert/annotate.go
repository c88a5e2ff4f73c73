package convert

import (
	"time"

	"github.com/bastiangx/kanaserve/pkg/candidate"
)

// pairedSymbols are inserted with the caret placed between the pair.
var pairedSymbols = map[string]bool{
	"[]": true, "()": true, "｛｝": true, "〈〉": true, "〔〕": true,
	"（）": true, "「」": true, "『』": true, "【】": true, "{}": true,
	"<>": true, "《》": true, "\"\"": true, "''": true, "””": true,
}

// appropriateActions returns what should happen after text is selected.
func appropriateActions(text string) []candidate.CompleteAction {
	if pairedSymbols[text] {
		return []candidate.CompleteAction{candidate.MoveCursor(-1)}
	}
	if text == "{{}}" {
		return []candidate.CompleteAction{candidate.MoveCursor(-2)}
	}
	return nil
}

// finalize returns annotated copies: cursor actions attached, template
// markup expanded and CorrespondingCount capped at the input length.
func finalize(candidates []candidate.Candidate, inputLen int, now time.Time) []candidate.Candidate {
	out := make([]candidate.Candidate, len(candidates))
	for i, c := range candidates {
		c = c.WithActions(appropriateActions(c.Text)...)
		c = candidate.ParseTemplate(c, now)
		if c.CorrespondingCount > inputLen {
			c.CorrespondingCount = inputLen
		}
		out[i] = c
	}
	return out
}
