// Package ingest normalizes raw spending data, either a delimited CSV upload
// or a block of free text, into core records ready for aggregation.
package ingest

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

// decodeBytes interprets uploaded bytes as UTF-8, falling back to EUC-KR
// (cp949) for Korean card-statement exports.
func decodeBytes(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	decoded, err := korean.EUCKR.NewDecoder().Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode cp949: %w", err)
	}
	return string(decoded), nil
}
