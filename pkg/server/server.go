package server

import (
	"errors"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/kanaserve/internal/logger"
	"github.com/bastiangx/kanaserve/pkg/candidate"
	"github.com/bastiangx/kanaserve/pkg/convert"
	"github.com/bastiangx/kanaserve/pkg/kana"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const codeBadRequest = 400

// Config holds the server limits and the request defaults.
type Config struct {
	// MaxCandidates caps the main list, 0 sends everything.
	MaxCandidates  int
	MaxInputLength int
	Defaults       convert.Options
}

// Server handles the IPC for one conversion session.
type Server struct {
	conv    *convert.Converter
	session *convert.Session
	config  Config
	opts    convert.Options

	// input is the composing text of the last conversion and last its result.
	input kana.ComposingText
	last  convert.Result

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	logger  *log.Logger
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(conv *convert.Converter, config Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		conv:    conv,
		session: convert.NewSession(),
		config:  config,
		opts:    config.Defaults,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
		logger:  logger.New("server"),
	}
}

// Start serves requests until the input ends.
func (s *Server) Start() error {
	s.logger.Debug("Starting server", "session", s.session.ID)
	s.send(StatusResponse{Status: "ready", Session: s.session.ID.String()})

	for {
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}

		var request Request
		if err := msgpack.Unmarshal(raw, &request); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			s.sendError("", "invalid request", codeBadRequest)
			continue
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	switch request.Action {
	case "convert":
		s.handleConvert(request)
	case "commit":
		s.handleCommit(request, s.last.Main)
	case "complete_clause":
		s.handleCommit(request, s.last.FirstClause)
	case "reset":
		s.conv.ResetState(s.session)
		s.input = kana.ComposingText{}
		s.last = convert.Result{}
		s.send(StatusResponse{ID: request.ID, Status: "ok"})
	case "language":
		s.handleLanguage(request)
	case "health":
		s.send(StatusResponse{ID: request.ID, Status: "ok", Session: s.session.ID.String()})
	default:
		s.sendError(request.ID, fmt.Sprintf("unknown action: %s", request.Action), codeBadRequest)
	}
}

func (s *Server) handleConvert(request Request) {
	input, err := parseInput(request)
	if err != nil {
		s.sendError(request.ID, err.Error(), codeBadRequest)
		return
	}
	if s.config.MaxInputLength > 0 && input.Len() > s.config.MaxInputLength {
		s.sendError(request.ID, fmt.Sprintf("input exceeds maximum length of %d", s.config.MaxInputLength), codeBadRequest)
		return
	}
	s.convert(request.ID, input, applyOverrides(s.opts, request.Options))
}

func (s *Server) convert(id string, input kana.ComposingText, opts convert.Options) {
	start := time.Now()
	result := s.conv.RequestCandidates(s.session, input, opts)
	elapsed := time.Since(start)

	s.input = input
	s.last = result

	main := result.Main
	if s.config.MaxCandidates > 0 && len(main) > s.config.MaxCandidates {
		main = main[:s.config.MaxCandidates]
	}
	s.send(ConvertResponse{
		ID:          id,
		Main:        toResponse(main),
		FirstClause: toResponse(result.FirstClause),
		Count:       len(main),
		TimeTaken:   elapsed.Microseconds(),
	})
}

// handleCommit learns the chosen candidate. Input left over after a partial
// commit is converted again without the committed clause.
func (s *Server) handleCommit(request Request, list []candidate.Candidate) {
	if request.Index == nil {
		s.sendError(request.ID, "missing 'index' parameter", codeBadRequest)
		return
	}
	i := *request.Index
	if i < 0 || i >= len(list) {
		s.sendError(request.ID, fmt.Sprintf("index %d out of range", i), codeBadRequest)
		return
	}
	chosen := list[i]
	s.conv.NotifyCommit(s.session, chosen)

	if chosen.CorrespondingCount >= s.input.Len() {
		s.input = kana.ComposingText{}
		s.last = convert.Result{}
		s.send(StatusResponse{ID: request.ID, Status: "committed"})
		return
	}

	s.conv.SetCompletedData(s.session, chosen)
	remaining := append([]kana.InputElement(nil), s.input.Input[chosen.CorrespondingCount:]...)
	s.convert(request.ID, kana.ComposingText{Input: remaining}, s.opts)
}

func (s *Server) handleLanguage(request Request) {
	lang, ok := convert.ParseKeyboardLanguage(request.Language)
	if !ok {
		s.sendError(request.ID, fmt.Sprintf("unknown language: %s", request.Language), codeBadRequest)
		return
	}
	s.opts.KeyboardLanguage = lang
	s.conv.PrepareLanguage(lang)
	s.send(StatusResponse{
		ID:       request.ID,
		Status:   "ok",
		Language: lang.String(),
		State:    s.conv.LanguageState(lang).String(),
	})
}

func parseStyle(style string) (kana.InputStyle, error) {
	switch style {
	case "", "kana", "direct":
		return kana.Direct, nil
	case "roman", "romaji":
		return kana.Roman2Kana, nil
	}
	return kana.Direct, fmt.Errorf("unknown style: %s", style)
}

func parseInput(request Request) (kana.ComposingText, error) {
	if len(request.Input) == 0 {
		style, err := parseStyle(request.Style)
		if err != nil {
			return kana.ComposingText{}, err
		}
		return kana.ComposingText{}.Append(request.Text, style), nil
	}

	input := make([]kana.InputElement, 0, len(request.Input))
	for i, e := range request.Input {
		style, err := parseStyle(e.Style)
		if err != nil {
			return kana.ComposingText{}, err
		}
		r, size := utf8.DecodeRuneInString(e.Char)
		if size == 0 || size != len(e.Char) || r == utf8.RuneError {
			return kana.ComposingText{}, fmt.Errorf("input element %d must be a single character", i)
		}
		input = append(input, kana.InputElement{Character: r, Style: style})
	}
	return kana.ComposingText{Input: input}, nil
}

func applyOverrides(opts convert.Options, o *OptionOverrides) convert.Options {
	if o == nil {
		return opts
	}
	if o.NBest != nil && *o.NBest > 0 {
		opts.NBest = *o.NBest
	}
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&opts.TypographyLetter, o.TypographyLetter)
	set(&opts.UnicodeCandidate, o.UnicodeCandidate)
	set(&opts.FullWidthRoman, o.FullWidthRoman)
	set(&opts.HalfWidthKana, o.HalfWidthKana)
	set(&opts.RequireJapanesePrediction, o.JapanesePrediction)
	set(&opts.RequireEnglishPrediction, o.EnglishPrediction)
	set(&opts.EnglishInRoman2Kana, o.EnglishInRoman2Kana)
	return opts
}

func toResponse(candidates []candidate.Candidate) []Candidate {
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		out[i] = Candidate{Text: c.Text, Value: c.Value, Count: c.CorrespondingCount}
		for _, a := range c.Actions {
			if a.Kind == candidate.ActionMoveCursor {
				out[i].Actions = append(out[i].Actions, Action{Kind: "move_cursor", Offset: a.Offset})
			}
		}
	}
	return out
}

func (s *Server) send(response any) {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.logger.Debug("Request failed", "id", id, "error", message, "code", code)
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
