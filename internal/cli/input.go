// Package cli handles cmd line input and conversions for DBG and testing
// the incremental lattice in real-time.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/convert"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
)

// Settings controls what the REPL prints.
type Settings struct {
	Limit           int
	ShowValues      bool
	ShowFirstClause bool
}

// InputHandler keeps one composition going across lines:
//
//	kanji   replace the input (ASCII is typed as romaji, anything else as kana)
//	+ru     append to the input
//	-       delete the last element, -3 deletes three
//	!2      commit candidate 2
//	?       reset the composition
type InputHandler struct {
	conv     *convert.Converter
	session  *convert.Session
	opts     convert.Options
	settings Settings

	input kana.ComposingText
	last  convert.Result
	out   *log.Logger
}

// NewInputHandler creates a REPL printing to w.
func NewInputHandler(conv *convert.Converter, opts convert.Options, settings Settings, w io.Writer) *InputHandler {
	return &InputHandler{
		conv:     conv,
		session:  convert.NewSession(),
		opts:     opts,
		settings: settings,
		out:      log.New(w),
	}
}

// Start begins the interface loop on stdin.
func (h *InputHandler) Start() error {
	return h.Run(os.Stdin)
}

// Run reads lines from r until it ends.
func (h *InputHandler) Run(r io.Reader) error {
	h.out.Print("kanaserve CLI [BETA]")
	h.out.Print("type romaji or kana and press Enter; +x appends, - deletes, !n commits, ? resets (Ctrl+C to exit)")

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
	return scanner.Err()
}

func (h *InputHandler) handleInput(line string) {
	switch {
	case line == "?":
		h.conv.ResetState(h.session)
		h.input = kana.ComposingText{}
		h.last = convert.Result{}
		h.out.Print("composition reset")
		return
	case strings.HasPrefix(line, "!"):
		h.commit(line[1:])
		return
	case strings.HasPrefix(line, "+"):
		h.input = appendTyped(h.input, line[1:])
	case strings.HasPrefix(line, "-"):
		n := 1
		if rest := line[1:]; rest != "" {
			parsed, err := strconv.Atoi(rest)
			if err != nil || parsed < 1 {
				log.Errorf("Invalid delete count: %s", rest)
				return
			}
			n = parsed
		}
		h.input = h.input.DeleteLast(n)
	default:
		h.input = appendTyped(kana.ComposingText{}, line)
	}
	h.convert()
}

// appendTyped types s at the tail: ASCII as romaji, anything else as kana.
func appendTyped(text kana.ComposingText, s string) kana.ComposingText {
	for _, r := range s {
		style := kana.Direct
		if r < 0x80 {
			style = kana.Roman2Kana
		}
		text = text.Append(string(r), style)
	}
	return text
}

func (h *InputHandler) convert() {
	start := time.Now()
	h.last = h.conv.RequestCandidates(h.session, h.input, h.opts)
	log.Debugf("Took [ %v ] for input '%s'", time.Since(start), h.input.Characters())

	if h.input.IsEmpty() {
		h.out.Print("(empty input)")
		return
	}
	h.out.Printf("%s  ->  %s", h.input.Characters(), h.input.ConvertTarget())
	h.printList("candidates", h.last.Main)
	if h.settings.ShowFirstClause {
		h.printList("first clause", h.last.FirstClause)
	}
}

func (h *InputHandler) commit(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(h.last.Main) {
		log.Errorf("No candidate %s", arg)
		return
	}
	chosen := h.last.Main[n-1]
	h.conv.NotifyCommit(h.session, chosen)
	h.out.Printf("committed %s", chosen.Text)

	if chosen.CorrespondingCount >= h.input.Len() {
		h.input = kana.ComposingText{}
		h.last = convert.Result{}
		return
	}
	h.conv.SetCompletedData(h.session, chosen)
	h.input = kana.ComposingText{Input: append([]kana.InputElement(nil), h.input.Input[chosen.CorrespondingCount:]...)}
	h.convert()
}

func (h *InputHandler) printList(title string, candidates []candidate.Candidate) {
	if len(candidates) == 0 {
		h.out.Printf("no %s", title)
		return
	}
	shown := candidates
	if h.settings.Limit > 0 && len(shown) > h.settings.Limit {
		shown = shown[:h.settings.Limit]
	}
	h.out.Printf("%d %s:", len(candidates), title)
	for i, c := range shown {
		word := fmt.Sprintf("\033[38;5;75m%s\033[0m", c.Text)
		if h.settings.ShowValues {
			h.out.Printf("%2d. %-30s (value: %7.2f, count: %d)", i+1, word, c.Value, c.CorrespondingCount)
		} else {
			h.out.Printf("%2d. %s", i+1, word)
		}
	}
}
