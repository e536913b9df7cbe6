package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsontidy/internal/errors"
	"github.com/mcncl/jsontidy/internal/models"
)

// Mode selects how strictly separators are enforced.
type Mode int

const (
	// ModeLenient tolerates a trailing comma before a closing bracket, does
	// not require commas between entries, and silently skips unexpected
	// characters in object bodies.
	ModeLenient Mode = iota
	// ModeStrict requires commas between entries, rejects trailing commas,
	// and rejects any content after the root container.
	ModeStrict
)

const eof = rune(0)

// token is an ephemeral span into the source: a start offset and a length.
// The substring is only materialized when a value is finalized.
type token struct {
	start  int
	length int
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// Parser scans a complete source text one character at a time and builds the
// value tree by recursive descent. A Parser is single use: one Parse call
// consumes the cursor.
type Parser struct {
	source  []rune // pre-decoded for constant-time positional access
	start   int
	current int
	line    int // 1-based, diagnostics only
	mode    Mode
}

// New creates a parser over a complete source text.
func New(source string, mode Mode) *Parser {
	return &Parser{source: []rune(source), line: 1, mode: mode}
}

// Parse consumes the source and returns the document tree. The root must be
// an object or an array, never a bare scalar. No partial tree is returned on
// failure.
func (p *Parser) Parse() (models.Document, error) {
	p.skipWhitespace()
	if p.isAtEnd() {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	c, err := p.advance()
	if err != nil {
		return models.Document{}, err
	}

	var doc models.Document
	switch c {
	case '{':
		obj, err := p.parseObject()
		if err != nil {
			return models.Document{}, err
		}
		doc = models.NewObjectDocument(obj)
	case '[':
		arr, err := p.parseArray()
		if err != nil {
			return models.Document{}, err
		}
		doc = models.NewArrayDocument(arr)
	default:
		return models.Document{}, p.errorf("cannot parse non-object or non-array at top level")
	}

	if p.mode == ModeStrict {
		p.skipWhitespace()
		if !p.isAtEnd() {
			return models.Document{}, p.errorf("unexpected content after top-level value")
		}
	}

	return doc, nil
}

// errorf creates a fatal syntax error located at the current source line.
func (p *Parser) errorf(format string, args ...any) error {
	return errors.NewSyntaxError(p.line, fmt.Sprintf(format, args...))
}

// escalate converts a recoverable value error into a located fatal error.
// Syntax errors from deeper productions already carry a line and pass
// through unchanged.
func (p *Parser) escalate(err error) error {
	var syntaxErr *errors.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return err
	}
	return errors.NewSyntaxError(p.line, err.Error())
}

func (p *Parser) parseObject() (models.Object, error) {
	if p.mode == ModeStrict {
		return p.parseObjectStrict()
	}

	obj := models.Object{}

	p.skipWhitespace()
	for !p.matchEndOfObject() {
		c, err := p.advance()
		if err != nil {
			return nil, err
		}

		// Only a quote opens an entry; anything else is skipped. Strict mode
		// rejects it instead.
		if c == '"' {
			if err := p.parsePair(obj); err != nil {
				return nil, err
			}
		}

		p.skipWhitespace()
	}

	return obj, nil
}

func (p *Parser) parseObjectStrict() (models.Object, error) {
	obj := models.Object{}

	p.skipWhitespace()
	if p.matchChar('}') {
		return obj, nil
	}

	for {
		p.skipWhitespace()
		c, err := p.advance()
		if err != nil {
			return nil, err
		}
		if c != '"' {
			return nil, p.errorf("expected string key in object")
		}
		if err := p.parsePair(obj); err != nil {
			return nil, err
		}

		p.skipWhitespace()
		c, err = p.advance()
		if err != nil {
			return nil, err
		}
		switch c {
		case ',':
			// next entry
		case '}':
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' after object entry")
		}
	}
}

func (p *Parser) parseArray() (models.Array, error) {
	if p.mode == ModeStrict {
		return p.parseArrayStrict()
	}

	arr := models.Array{}

	p.skipWhitespace()
	for !p.matchEndOfArray() {
		value, err := p.parseValue()
		if err != nil {
			return nil, p.escalate(err)
		}
		arr = append(arr, value)

		p.skipWhitespace()
		if p.peek() == ',' {
			p.current++
		}
		p.skipWhitespace()
	}

	return arr, nil
}

func (p *Parser) parseArrayStrict() (models.Array, error) {
	arr := models.Array{}

	p.skipWhitespace()
	if p.matchChar(']') {
		return arr, nil
	}

	for {
		p.skipWhitespace()
		value, err := p.parseValue()
		if err != nil {
			return nil, p.escalate(err)
		}
		arr = append(arr, value)

		p.skipWhitespace()
		c, err := p.advance()
		if err != nil {
			return nil, err
		}
		switch c {
		case ',':
			// next element
		case ']':
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']' after array element")
		}
	}
}

// parsePair parses one "key": value entry and inserts it into obj. The
// opening quote of the key has already been consumed. Duplicate keys are
// last write wins.
func (p *Parser) parsePair(obj models.Object) error {
	keyToken, err := p.parseString()
	if err != nil {
		return err
	}
	key := p.lexeme(keyToken)

	p.skipWhitespace()
	if !p.matchChar(':') {
		return p.errorf("expected colon after key: %q", key)
	}
	p.skipWhitespace()

	value, err := p.parseValue()
	if err != nil {
		return p.escalate(err)
	}
	obj[key] = value
	return nil
}

// parseValue dispatches on the first consumed character. The plain errors
// returned here are recoverable in the layering sense: the calling container
// production escalates them into located fatal errors.
func (p *Parser) parseValue() (models.Value, error) {
	c, err := p.advance()
	if err != nil {
		return nil, err
	}

	switch {
	case c == '"':
		valueToken, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return models.String(p.lexeme(valueToken)), nil
	case c == '{':
		value, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		return value, nil
	case c == '[':
		value, err := p.parseArray()
		if err != nil {
			return nil, err
		}
		return value, nil
	case c == 't':
		if err := p.expect("rue"); err != nil {
			return nil, err
		}
		return models.Boolean(true), nil
	case c == 'f':
		if err := p.expect("alse"); err != nil {
			return nil, err
		}
		return models.Boolean(false), nil
	case isDigit(c) || c == '-':
		return p.parseNumber()
	default:
		return nil, stderrors.New("unexpected value")
	}
}

// parseString captures the span between the opening quote (already consumed)
// and the next quote. Backslash escapes are not interpreted, so an escaped
// quote terminates the string early.
func (p *Parser) parseString() (token, error) {
	p.start = p.current

	for !p.isAtEnd() && p.peek() != '"' {
		p.current++
	}

	valueToken := p.makeToken()
	if _, err := p.advance(); err != nil { // closing quote
		return token{}, p.errorf("unterminated string")
	}

	return valueToken, nil
}

// parseNumber scans a maximal run of digits and dots starting one character
// back from the cursor. No dot makes an integer, otherwise a float. A
// conversion failure (for instance a second dot) is a recoverable error for
// the caller to escalate.
func (p *Parser) parseNumber() (models.Value, error) {
	p.start = p.current - 1

	isFloat := false
	for !p.isAtEnd() && (isDigit(p.peek()) || p.peek() == '.') {
		if p.peek() == '.' {
			isFloat = true
		}
		p.current++
	}

	lexeme := p.lexeme(p.makeToken())
	if isFloat {
		value, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", lexeme)
		}
		return models.Float(value), nil
	}

	value, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", lexeme)
	}
	return models.Integer(value), nil
}

// expect consumes the remaining characters of a keyword literal whose first
// character has already been consumed. A mismatch is fatal.
func (p *Parser) expect(rest string) error {
	for _, want := range rest {
		c, err := p.advance()
		if err != nil {
			return err
		}
		if c != want {
			return p.errorf("unexpected value")
		}
	}
	return nil
}

// matchEndOfObject consumes a closing brace when it is next, along with one
// immediately following comma. The comma belongs to the enclosing container;
// eating it here is what makes separator handling lenient.
func (p *Parser) matchEndOfObject() bool {
	if !p.matchChar('}') {
		return false
	}
	if p.peek() == ',' {
		p.current++
	}
	return true
}

// matchEndOfArray is the array counterpart of matchEndOfObject.
func (p *Parser) matchEndOfArray() bool {
	if !p.matchChar(']') {
		return false
	}
	if p.peek() == ',' {
		p.current++
	}
	return true
}

func (p *Parser) makeToken() token {
	return token{start: p.start, length: p.current - p.start}
}

func (p *Parser) lexeme(t token) string {
	return string(p.source[t.start : t.start+t.length])
}

func (p *Parser) isAtEnd() bool {
	return p.current >= len(p.source)
}

// advance returns the character at the cursor and moves past it. Running
// past end-of-input is unrecoverable.
func (p *Parser) advance() (rune, error) {
	if p.isAtEnd() {
		return eof, p.errorf("unexpected end of input")
	}
	p.current++
	return p.source[p.current-1], nil
}

// peek returns the character at the cursor without consuming it, or a NUL
// sentinel at end-of-input.
func (p *Parser) peek() rune {
	if p.isAtEnd() {
		return eof
	}
	return p.source[p.current]
}

// matchChar consumes the next character only if it equals expected.
func (p *Parser) matchChar(expected rune) bool {
	if p.isAtEnd() {
		return false
	}
	if p.source[p.current] != expected {
		return false
	}
	p.current++
	return true
}

// skipWhitespace consumes runs of space, tab, carriage return and newline,
// counting lines as it goes.
func (p *Parser) skipWhitespace() {
	for !p.isAtEnd() {
		switch p.peek() {
		case ' ', '\r', '\t':
			p.current++
		case '\n':
			p.line++
			p.current++
		default:
			return
		}
	}
}

// ParseString parses a complete JSON document from a string using lenient
// separator handling.
func ParseString(source string) (models.Document, error) {
	return ParseStringMode(source, ModeLenient)
}

// ParseStringMode parses a complete JSON document from a string.
func ParseStringMode(source string, mode Mode) (models.Document, error) {
	if strings.TrimSpace(source) == "" {
		return models.Document{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return New(source, mode).Parse()
}

// Parse reads the complete document from reader and parses it. The core
// operates on a fully in-memory string; there is no streaming mode.
func Parse(reader io.Reader, mode Mode) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	if len(data) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	return ParseStringMode(string(data), mode)
}

// ParseFile parses a JSON document from a file path.
func ParseFile(filePath string, mode Mode) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to read file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return ParseStringMode(string(data), mode)
}
