// Package slides re-parses raw Markdown source into a slide deck. It is
// deliberately independent of the HTML walker: slide boundaries are a
// property of the authored headings, not of the rendered markup.
package slides

import (
	"bufio"
	"regexp"
	"strings"
)

// Bullet is one line of slide body text. Level is a 0-based clamp of the
// source indentation, not a faithful indentation model.
type Bullet struct {
	Text  string
	Level int
}

// Slide holds one section of the deck. Code carries the fenced code of
// the section, multiple fences joined with a newline.
type Slide struct {
	Title   string
	Bullets []Bullet
	Code    string
}

var (
	listItemRE = regexp.MustCompile(`^(\s*)(?:[-*+]|\d+[.)])\s+(.*)$`)
	ruleRE     = regexp.MustCompile(`^\s*(?:-{3,}|\*{3,}|_{3,})\s*$`)

	// Literal bold and code span markers are stripped from bullet text.
	inlineMarkers = strings.NewReplacer("**", "", "`", "")
)

// Segment splits source into slides. A new slide begins at every level-1
// or level-2 heading; content before the first heading produces a single
// untitled slide. Zero slide-worthy content yields an empty deck (the
// caller decides on a fallback).
func Segment(source string) []Slide {
	var (
		deck     []Slide
		current  *Slide
		inFence  bool
		fenceBuf []string
	)

	flush := func() {
		if current != nil {
			deck = append(deck, *current)
			current = nil
		}
	}
	appendCode := func() {
		code := strings.Join(fenceBuf, "\n")
		fenceBuf = nil
		if current.Code != "" {
			current.Code += "\n" + code
		} else {
			current.Code = code
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inFence {
				appendCode()
				inFence = false
				continue
			}
			// A fence can open before any heading has been seen.
			if current == nil {
				current = &Slide{}
			}
			inFence = true
			continue
		}
		if inFence {
			fenceBuf = append(fenceBuf, line)
			continue
		}

		if level, text := headingLine(trimmed); level > 0 {
			switch {
			case level <= 2:
				flush()
				current = &Slide{Title: inlineMarkers.Replace(text)}
			case level <= 4:
				// Minor headings emphasize but do not break slides.
				if current == nil {
					current = &Slide{}
				}
				current.Bullets = append(current.Bullets, Bullet{Text: inlineMarkers.Replace(text)})
			default:
				if current == nil {
					current = &Slide{}
				}
				current.Bullets = append(current.Bullets, Bullet{Text: inlineMarkers.Replace(text)})
			}
			continue
		}

		if trimmed == "" || ruleRE.MatchString(line) || strings.HasPrefix(trimmed, "|") {
			continue
		}

		if m := listItemRE.FindStringSubmatch(line); m != nil {
			if current == nil {
				current = &Slide{}
			}
			level := len(m[1]) / 2
			if level > 2 {
				level = 2
			}
			current.Bullets = append(current.Bullets, Bullet{
				Text:  inlineMarkers.Replace(strings.TrimSpace(m[2])),
				Level: level,
			})
			continue
		}

		if current == nil {
			current = &Slide{}
		}
		current.Bullets = append(current.Bullets, Bullet{Text: inlineMarkers.Replace(trimmed)})
	}

	if inFence && current != nil {
		// Unclosed fence at EOF still keeps its buffered lines.
		appendCode()
	}
	flush()
	return deck
}

// headingLine returns the ATX heading level of a trimmed line, or 0.
func headingLine(trimmed string) (int, string) {
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n == 0 || n > 6 {
		return 0, ""
	}
	if n == len(trimmed) {
		return n, ""
	}
	if trimmed[n] != ' ' && trimmed[n] != '\t' {
		return 0, ""
	}
	text := strings.TrimSpace(trimmed[n:])
	text = strings.TrimRight(text, "#")
	return n, strings.TrimSpace(text)
}
