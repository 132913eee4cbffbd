package graphfs

import (
	"fmt"
	"net/url"
	"strings"
)

const namespaceSep = "___"

// unsafeFileChars are escaped in page file names.
const unsafeFileChars = `%<>:"\|?*#`

// FileName maps a page title to a file name without extension.
// Namespace separators become "___"; characters that are unsafe in file
// names are percent-escaped. An underscore is escaped too when it touches
// a separator or sits in a run of three or more, so every literal "___"
// in the result is a separator.
func FileName(title string) string {
	parts := strings.Split(title, "/")
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteString(namespaceSep)
		}
		for j := 0; j < len(part); j++ {
			ch := part[j]
			if ch == '_' {
				end := j
				for end < len(part) && part[end] == '_' {
					end++
				}
				run := part[j:end]
				if len(run) >= len(namespaceSep) || (j == 0 && i > 0) || (end == len(part) && i < len(parts)-1) {
					run = strings.Repeat("%5F", len(run))
				}
				sb.WriteString(run)
				j = end - 1
				continue
			}
			if ch < 0x20 || ch == 0x7f || strings.IndexByte(unsafeFileChars, ch) >= 0 {
				fmt.Fprintf(&sb, "%%%02X", ch)
				continue
			}
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

// TitleFromFileName reverses FileName.
func TitleFromFileName(name string) (string, error) {
	decoded, err := url.PathUnescape(strings.ReplaceAll(name, namespaceSep, "/"))
	if err != nil {
		return "", fmt.Errorf("decode page file name %q: %w", name, err)
	}
	return decoded, nil
}
