// Package normalize reshapes raw product-info API records into the form the
// page assertions compare against.
package normalize

import (
	"fmt"
	"io"
	"strings"

	"github.com/themizzi/storecheck/internal/models"
	"golang.org/x/net/html"
)

const (
	lineBreak     = "<br>"
	closingTagTok = "</"
)

var lineBreakVariants = strings.NewReplacer("<br/>", lineBreak, "<br />", lineBreak, "<BR>", lineBreak)

// ParseRequirements turns a requirement markup fragment into a label/value map.
//
// The fragment is split into pseudo-lines on <br>. Only lines starting with a
// closing tag carry a "Label: value" pair; everything else is structure. This is
// a heuristic over upstream markup we do not control. Only the first colon
// separates label from value, so a value such as "DirectX: Version 12" keeps
// its own colons.
func ParseRequirements(fragment string) (models.RequirementMap, error) {
	result := models.RequirementMap{}
	if strings.TrimSpace(fragment) == "" {
		return result, nil
	}

	for _, line := range strings.Split(lineBreakVariants.Replace(fragment), lineBreak) {
		if !strings.HasPrefix(line, closingTagTok) {
			continue
		}

		text, err := stripTags(line)
		if err != nil {
			return nil, &models.NormalizationError{Field: "requirements", Reason: err.Error()}
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		label, value, ok := strings.Cut(text, ":")
		label = strings.TrimSpace(label)
		if !ok || label == "" {
			return nil, &models.NormalizationError{
				Field:  "requirements",
				Reason: fmt.Sprintf("line %q has no label: value pair", strings.TrimSpace(text)),
			}
		}
		result[label] = strings.TrimSpace(value)
	}

	return result, nil
}

// stripTags returns the text content of a markup fragment with entities decoded
func stripTags(fragment string) (string, error) {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return b.String(), nil
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
