package cv

import (
	"bytes"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"code.sajari.com/docconv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDocument     = errors.New("no text extracted from document")
)

// ContactHints are best-effort pattern matches over the cleaned text. A nil
// field means no match, never a failure.
type ContactHints struct {
	Email     *string
	Cellulare *string
}

type ExtractedText struct {
	Text     string
	Hints    ContactHints
	Filename string
	Format   string
}

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	// Italian mobile formats: optional +39/0039 prefix, digits grouped by
	// spaces, dots or dashes.
	phonePattern = regexp.MustCompile(`(?:\+39|0039)?[\s.-]?(?:\d{2,3}[\s.-]?){3,4}`)
)

// Letters outside ASCII that must survive cleaning; everything else
// non-printable or non-ASCII is an extraction artifact.
const italianDiacritics = "àèéìòùÀÈÉÌÒÙ"

type convertFunc func(content []byte) (string, error)

// Parser turns raw document bytes into cleaned plain text. Dispatch is purely
// by filename extension through the converter registry; an extension without a
// registered converter is unsupported, no content sniffing.
type Parser struct {
	converters map[string]convertFunc
	logger     *zap.Logger
}

func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		converters: map[string]convertFunc{
			".pdf":  docconvConverter("application/pdf"),
			".docx": docconvConverter("application/vnd.openxmlformats-officedocument.wordprocessingml.document"),
		},
		logger: logger,
	}
}

func docconvConverter(mimeType string) convertFunc {
	return func(content []byte) (string, error) {
		res, err := docconv.Convert(bytes.NewReader(content), mimeType, true)
		if err != nil {
			return "", eris.Wrap(err, "convert document")
		}
		return res.Body, nil
	}
}

// Supports reports whether a converter is registered for the file's extension.
func (p *Parser) Supports(filename string) bool {
	_, ok := p.converters[normalizeExt(filename)]
	return ok
}

// Extract converts document bytes to cleaned text with contact hints.
func (p *Parser) Extract(content []byte, filename string) (*ExtractedText, error) {
	ext := normalizeExt(filename)
	convert, ok := p.converters[ext]
	if !ok {
		return nil, eris.Wrapf(ErrUnsupportedFormat, "%s", ext)
	}

	raw, err := convert(content)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(raw) == "" {
		return nil, eris.Wrapf(ErrEmptyDocument, "%s", filename)
	}

	text, dropped := cleanText(raw)
	if dropped > 0 {
		p.logger.Info("dropped non-printable characters during cleaning",
			zap.String("filename", filename),
			zap.Int("dropped", dropped),
		)
	}
	if text == "" {
		return nil, eris.Wrapf(ErrEmptyDocument, "%s", filename)
	}

	return &ExtractedText{
		Text:     text,
		Hints:    extractContactHints(text),
		Filename: filename,
		Format:   ext,
	}, nil
}

func normalizeExt(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// cleanText collapses whitespace runs to single spaces and keeps only ASCII
// printable runes plus the Italian diacritics. It returns the cleaned text and
// the number of dropped runes.
func cleanText(s string) (string, int) {
	collapsed := strings.Join(strings.Fields(s), " ")

	var b strings.Builder
	b.Grow(len(collapsed))
	dropped := 0
	for _, r := range collapsed {
		if (r < unicode.MaxASCII && unicode.IsPrint(r)) || strings.ContainsRune(italianDiacritics, r) {
			b.WriteRune(r)
		} else {
			dropped++
		}
	}
	return strings.TrimSpace(b.String()), dropped
}

func extractContactHints(text string) ContactHints {
	var hints ContactHints
	if m := emailPattern.FindString(text); m != "" {
		hints.Email = &m
	}
	if m := strings.TrimSpace(phonePattern.FindString(text)); m != "" {
		hints.Cellulare = &m
	}
	return hints
}
