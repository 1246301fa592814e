package content

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseFrontMatter_NoDelimiters_DefaultsAndWholeBody(t *testing.T) {
	fm, body := ParseFrontMatter("# Just a heading\n\nSome text.\n")

	require.Equal(t, "Untitled", fm.Title)
	require.Equal(t, VisibilityPublic, fm.Visibility)
	require.Nil(t, fm.Date)
	require.Equal(t, "# Just a heading\n\nSome text.\n", body)
}

func TestParseFrontMatter_TypedFields_Extracted(t *testing.T) {
	raw := `---
title: Hello World
date: "2024-03-01"
tags:
  - go
  - web
draft: true
featured: true
featured_order: 2
nav_order: 1
visibility: unlisted
template: fancy.html
theme: terminal
author: octocat
custom_key: custom value
---
Body text.
`
	fm, body := ParseFrontMatter(raw)

	require.Equal(t, "Hello World", fm.Title)
	require.NotNil(t, fm.Date)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *fm.Date)
	require.Equal(t, []string{"go", "web"}, fm.Tags)
	require.True(t, fm.Draft)
	require.True(t, fm.Featured)
	require.NotNil(t, fm.FeaturedOrder)
	require.Equal(t, 2, *fm.FeaturedOrder)
	require.NotNil(t, fm.NavOrder)
	require.Equal(t, 1, *fm.NavOrder)
	require.Equal(t, VisibilityUnlisted, fm.Visibility)
	require.Equal(t, "fancy.html", fm.Template)
	require.Equal(t, "terminal", fm.Theme)
	require.Equal(t, "octocat", fm.Author)
	require.Equal(t, "custom value", fm.Extra["custom_key"])
	require.Equal(t, "Body text.\n", body)
}

func TestParseFrontMatter_MalformedYAML_DefaultsAndRemainingBody(t *testing.T) {
	raw := "---\ntitle: [unclosed\n---\nStill the body.\n"

	fm, body := ParseFrontMatter(raw)

	require.Equal(t, "Untitled", fm.Title)
	require.Equal(t, "Still the body.\n", body)
}

func TestParseFrontMatter_NonMappingYAML_Defaults(t *testing.T) {
	raw := "---\njust a scalar\n---\nBody.\n"

	fm, body := ParseFrontMatter(raw)

	require.Equal(t, "Untitled", fm.Title)
	require.Equal(t, "Body.\n", body)
}

func TestParseFrontMatter_DelimiterNotAtStart_TreatedAsBody(t *testing.T) {
	raw := "\n---\ntitle: Nope\n---\nBody.\n"

	fm, body := ParseFrontMatter(raw)

	require.Equal(t, "Untitled", fm.Title)
	require.Equal(t, raw, body)
}

func TestParseFrontMatter_TrailingWhitespaceOnDelimiters_Accepted(t *testing.T) {
	raw := "--- \t\ntitle: Padded\n--- \nBody.\n"

	fm, _ := ParseFrontMatter(raw)

	require.Equal(t, "Padded", fm.Title)
}

func TestParseFrontMatter_UnparsableDate_Dropped(t *testing.T) {
	raw := "---\ntitle: Dated\ndate: \"not-a-date\"\n---\nBody.\n"

	fm, _ := ParseFrontMatter(raw)

	require.Equal(t, "Dated", fm.Title)
	require.Nil(t, fm.Date)
}

func TestParseFrontMatter_YAMLTimestampDate_Accepted(t *testing.T) {
	raw := "---\ndate: 2024-03-01\n---\nBody.\n"

	fm, _ := ParseFrontMatter(raw)

	require.NotNil(t, fm.Date)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *fm.Date)
}

func TestParseFrontMatter_EmptyTitle_KeepsDefault(t *testing.T) {
	raw := "---\ntitle: \"\"\n---\nBody.\n"

	fm, _ := ParseFrontMatter(raw)

	require.Equal(t, "Untitled", fm.Title)
}
