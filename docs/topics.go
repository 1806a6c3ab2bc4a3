// Package docs embeds the help topics of the terminal.
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var files embed.FS

// Topic describes a help topic.
type Topic struct {
	Name    string
	Title   string // first heading
	Summary string // first paragraph line
}

// Names returns the names of the help topics, sorted.
func Names() []string {
	var names []string
	entries, _ := fs.ReadDir(files, ".")
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		if e.IsDir() || name == "readme" {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get returns the markdown of a topic. The topic "*" is every topic concatenated.
func Get(name string) (string, error) {
	if name == "*" {
		return Concat(Names()...)
	}
	content, err := files.ReadFile(strings.ToLower(name) + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", name, err)
	}
	return string(content), nil
}

// Concat returns the markdown of several topics, separated by a blank line.
func Concat(names ...string) (string, error) {
	var b bytes.Buffer
	for _, name := range names {
		content, err := Get(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// List returns the description of every topic.
func List() ([]Topic, error) {
	var topics []Topic
	for _, name := range Names() {
		content, err := Get(name)
		if err != nil {
			return nil, err
		}
		t := Topic{Name: name}
		scanner := bufio.NewScanner(strings.NewReader(content))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "":
			case strings.HasPrefix(line, "# ") && t.Title == "":
				t.Title = strings.TrimPrefix(line, "# ")
			case !strings.HasPrefix(line, "#") && t.Summary == "":
				t.Summary = line
			}
			if t.Title != "" && t.Summary != "" {
				break
			}
		}
		topics = append(topics, t)
	}
	return topics, nil
}
