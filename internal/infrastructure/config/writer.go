package config

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var sectionRegex = regexp.MustCompile(`^(\s*)\[([^\]]+)\]\s*$`)

// WriteConfigOrdered writes the configuration to disk with consistent ordering.
// - Struct fields are written in definition order (go-toml v2 behavior)
// - TOML sections are sorted alphabetically for deterministic output
func WriteConfigOrdered(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	data, err := EncodeConfig(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// EncodeConfig renders cfg as TOML with sorted sections.
func EncodeConfig(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)

	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return []byte(sortTOMLSections(buf.String())), nil
}

// sortTOMLSections sorts TOML content so sections are in alphabetical order.
func sortTOMLSections(content string) string {
	lines := strings.Split(content, "\n")

	type section struct {
		header string   // e.g. "signal"
		lines  []string // lines belonging to this section (including header)
	}

	var sections []section
	var currentSection *section
	var preamble []string // lines before first section

	for _, line := range lines {
		if match := sectionRegex.FindStringSubmatch(line); match != nil {
			if currentSection != nil {
				sections = append(sections, *currentSection)
			}
			currentSection = &section{
				header: match[2],
				lines:  []string{line},
			}
		} else if currentSection != nil {
			currentSection.lines = append(currentSection.lines, line)
		} else {
			preamble = append(preamble, line)
		}
	}

	if currentSection != nil {
		sections = append(sections, *currentSection)
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].header < sections[j].header
	})

	var result strings.Builder

	for _, line := range preamble {
		result.WriteString(line)
		result.WriteString("\n")
	}

	for i, sec := range sections {
		// Blank line between sections
		if i > 0 || len(preamble) > 0 {
			content := result.String()
			if !strings.HasSuffix(content, "\n\n") && content != "" {
				result.WriteString("\n")
			}
		}

		for _, line := range sec.lines {
			result.WriteString(line)
			result.WriteString("\n")
		}
	}

	// Trim trailing whitespace but ensure single newline at end
	output := strings.TrimRight(result.String(), "\n")
	if output != "" {
		output += "\n"
	}

	return output
}
