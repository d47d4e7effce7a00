package extract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/doclinks/internal/model"
)

// ErrInvalidEncoding is returned when a document is not valid UTF-8 after
// byte-order-mark handling.
var ErrInvalidEncoding = errors.New("stream did not contain valid UTF-8")

// ReadDocument reads the file at path and returns its text content and the
// hex SHA3-256 digest of that content.
//
// A UTF-8 byte order mark is stripped. Files starting with a UTF-16 byte
// order mark are decoded to UTF-8. Anything else must already be UTF-8.
func ReadDocument(path string) (string, string, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from the directory walk
	if err != nil {
		return "", "", err
	}

	decoded, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), raw)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if !utf8.Valid(decoded) {
		return "", "", ErrInvalidEncoding
	}

	sum := sha3.Sum256(decoded)
	return string(decoded), hex.EncodeToString(sum[:]), nil
}

// FromFile reads doc and extracts its links using doc.Format.
// The returned Document carries the digest and link count. On a read
// failure the error is returned with no links.
func FromFile(doc model.Document) (model.Document, []string, error) {
	content, digest, err := ReadDocument(doc.Path)
	if err != nil {
		return doc, nil, err
	}

	links := Links(content, doc.Format)
	doc.Digest = digest
	doc.LinkCount = len(links)
	return doc, links, nil
}
