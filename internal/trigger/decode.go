package trigger

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

// DecodeProcessOutput turns raw subprocess output bytes into text. The
// screening program may emit UTF-8 or, on Korean Windows hosts, EUC-KR/CP949.
// UTF-8 is tried first, then EUC-KR, then lossy substitution; this never
// fails, so log text is always produced.
func DecodeProcessOutput(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	if decoded, err := korean.EUCKR.NewDecoder().Bytes(b); err == nil {
		return string(decoded)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
