package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Render writes t as indented YAML, prefixing every line with indent
// spaces. Keys are emitted in sorted order.
func Render(w io.Writer, t Tree, indent int) error {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(map[string]any(t)); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}

	prefix := strings.Repeat(" ", indent)
	scanner := bufio.NewScanner(&buf)

	for scanner.Scan() {
		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, scanner.Text()); err != nil {
			return err
		}
	}

	return scanner.Err()
}
