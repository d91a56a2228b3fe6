package posts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Stringify converts a decoded document field to its display string.
// It never fails:
//   - nil (absent or JSON null) becomes ""
//   - strings are returned as is, booleans as "true"/"false"
//   - numbers use their shortest decimal form
//   - rich text (an array of blocks carrying "text") becomes the block
//     texts joined by a space
//   - other arrays and objects become compact JSON
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case []any:
		if text, ok := richText(x); ok {
			return text
		}
		return compactJSON(x)
	case map[string]any:
		return compactJSON(x)
	default:
		return fmt.Sprint(x)
	}
}

// richText joins the text of Prismic rich-text blocks. ok is false when
// blocks is not rich text.
func richText(blocks []any) (string, bool) {
	if len(blocks) == 0 {
		return "", false
	}
	texts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		m, ok := b.(map[string]any)
		if !ok {
			return "", false
		}
		t, ok := m["text"].(string)
		if !ok {
			return "", false
		}
		texts = append(texts, t)
	}
	return strings.Join(texts, " "), true
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
