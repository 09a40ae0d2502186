package utils

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidDataURI = errors.New("invalid data URI image payload")

// DecodeImageDataURI decodes an inline image of the form
// data:image/<ext>;base64,<payload> into raw bytes and its extension.
func DecodeImageDataURI(data string) ([]byte, string, error) {
	if !strings.HasPrefix(data, "data:image/") {
		return nil, "", ErrInvalidDataURI
	}

	parts := strings.SplitN(data, ";base64,", 2)
	if len(parts) != 2 {
		return nil, "", ErrInvalidDataURI
	}

	ext := strings.TrimPrefix(parts[0], "data:image/")
	if ext == "" {
		return nil, "", ErrInvalidDataURI
	}

	raw, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, "", ErrInvalidDataURI
	}

	return raw, ext, nil
}
