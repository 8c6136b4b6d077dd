package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	stderrors "errors"                           // Standard errors package
	"github.com/mcncl/jsontree/internal/errors" // Custom errors package
	"github.com/mcncl/jsontree/internal/models"
)

// Format names an input or output document format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks a format from a file extension, defaulting to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseAs parses a document of the given format.
func ParseAs(reader io.Reader, format Format) (models.Document, error) {
	if format == FormatYAML {
		return ParseYAML(reader)
	}
	return Parse(reader)
}

// Parse converts JSON data from an io.Reader into a Document.
// Object members keep their source order. When a key repeats within an
// object, the last value wins and keeps the position of the first.
func Parse(reader io.Reader) (models.Document, error) {
	decoder := json.NewDecoder(reader)
	decoder.UseNumber() // Ensure numbers are read as json.Number

	rootValue, err := decodeValue(decoder)
	if err != nil {
		return models.Document{}, classifyError(err)
	}

	// Anything but EOF after the first value is trailing data.
	if _, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return models.Document{}, errors.NewParsingError("invalid trailing data after first JSON value", err)
		}
		return models.Document{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	}

	return newDocument(rootValue), nil
}

func newDocument(root models.JSONValue) models.Document {
	_, isArray := root.(models.JSONArray)
	return models.Document{Root: root, RootIsArray: isArray}
}

func classifyError(err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}
	if stderrors.Is(err, io.EOF) { // io.EOF before any token means empty input
		return errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected EOF: JSON document is incomplete", errors.ErrInvalidJSON)
	}
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidJSON,
		)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

// openContainer is an object or array whose closing delimiter has not been read.
type openContainer struct {
	isObject bool
	obj      models.JSONObject
	arr      models.JSONArray
	key      string
	haveKey  bool
	seen     map[string]int
}

func (c *openContainer) add(v models.JSONValue) {
	if !c.isObject {
		c.arr = append(c.arr, v)
		return
	}
	if i, ok := c.seen[c.key]; ok {
		c.obj[i].Value = v
	} else {
		c.seen[c.key] = len(c.obj)
		c.obj = append(c.obj, models.Member{Key: c.key, Value: v})
	}
	c.haveKey = false
}

func (c *openContainer) value() models.JSONValue {
	if c.isObject {
		return c.obj
	}
	return c.arr
}

// decodeValue reads exactly one JSON value from the token stream. Nesting
// is tracked on an explicit stack rather than by recursion.
func decodeValue(dec *json.Decoder) (models.JSONValue, error) {
	var stack []*openContainer
	for {
		tok, err := dec.Token()
		if err != nil {
			if len(stack) > 0 && stderrors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}

		var value models.JSONValue
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, &openContainer{
					isObject: true,
					obj:      models.JSONObject{},
					seen:     make(map[string]int),
				})
				continue
			case '[':
				stack = append(stack, &openContainer{arr: models.JSONArray{}})
				continue
			default: // '}' or ']'
				value = stack[len(stack)-1].value()
				stack = stack[:len(stack)-1]
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].isObject && !stack[n-1].haveKey {
				stack[n-1].key = t
				stack[n-1].haveKey = true
				continue
			}
			value = t
		default:
			// json.Number, bool or nil
			value = t
		}

		if len(stack) == 0 {
			return value, nil
		}
		stack[len(stack)-1].add(value)
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	// TrimSpace is important here because an empty string reader will give io.EOF to Decode,
	// but a string with only spaces might not, depending on the decoder's behavior.
	if strings.TrimSpace(jsonString) == "" {
		// Provide a specific error for truly empty or whitespace-only strings
		return models.Document{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseFile parses a JSON or YAML file, chosen by its extension.
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return ParseAs(file, DetectFormat(filePath))
}
