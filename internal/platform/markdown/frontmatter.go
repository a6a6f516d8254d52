package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Field is one frontmatter entry. Render keeps fields in the given order.
type Field struct {
	Key   string
	Value any
}

// Decode reads the leading frontmatter of content into out and returns the
// body after it. found is false when content has no frontmatter; out is then
// left untouched.
func Decode(content string, out any) (body string, found bool, err error) {
	if !strings.HasPrefix(content, separator) {
		return content, false, nil
	}
	rest := content[len(separator):]
	end := strings.Index(rest, "\n"+separator)
	if end < 0 {
		return "", false, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	if err := yaml.Unmarshal([]byte(rest[:end+1]), out); err != nil {
		return "", false, fmt.Errorf("decode frontmatter: %w", err)
	}
	return rest[end+1+len(separator):], true, nil
}

func Render(fields []Field, body string) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, f := range fields {
		value := &yaml.Node{}
		if err := value.Encode(f.Value); err != nil {
			return "", fmt.Errorf("encode frontmatter %s: %w", f.Key, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: f.Key}, value)
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
