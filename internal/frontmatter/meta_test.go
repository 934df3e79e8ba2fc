package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecode_RecognizedKeys(t *testing.T) {
	raw := []byte(`title: Feign error handling
date: "2024-06-30"
tags:
  - feign
  - error-handling
layout: post
templateClass: wide
permalink: /feign-errors/
author: eringen
`)

	meta, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, "Feign error handling", meta.Title)
	require.True(t, meta.HasDate)
	require.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), meta.Date)
	require.Equal(t, []string{"feign", "error-handling"}, meta.Tags)
	require.Equal(t, "post", meta.Layout)
	require.Equal(t, "wide", meta.TemplateClass)
	require.Equal(t, "/feign-errors/", meta.Permalink)
	require.Equal(t, "eringen", meta.Extra["author"])
}

func TestDecode_Empty_ReturnsZeroMeta(t *testing.T) {
	meta, err := Decode(nil)
	require.NoError(t, err)
	require.Empty(t, meta.Title)
	require.False(t, meta.HasDate)
	require.Empty(t, meta.Tags)
}

func TestDecode_UnquotedDate_AcceptsYAMLTimestamp(t *testing.T) {
	// yaml.v3 resolves canonical date scalars to time.Time.
	meta, err := Decode([]byte("date: 2024-06-30\n"))
	require.NoError(t, err)
	require.True(t, meta.HasDate)
	require.Equal(t, 2024, meta.Date.Year())
	require.Equal(t, time.June, meta.Date.Month())
}

func TestDecode_DateTimeString(t *testing.T) {
	meta, err := Decode([]byte("date: \"2024-06-30 08:15:00\"\n"))
	require.NoError(t, err)
	require.True(t, meta.HasDate)
	require.Equal(t, 8, meta.Date.Hour())
}

func TestDecode_BadDate_ReturnsError(t *testing.T) {
	_, err := Decode([]byte("date: \"June 30th\"\n"))
	require.Error(t, err)
}

func TestDecode_InvalidYAML_ReturnsError(t *testing.T) {
	_, err := Decode([]byte("title: [unclosed\n"))
	require.Error(t, err)
}

func TestDecode_SingleTagShorthand(t *testing.T) {
	meta, err := Decode([]byte("tags: feign\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"feign"}, meta.Tags)
}

func TestDecode_DuplicateTags_Deduplicated(t *testing.T) {
	meta, err := Decode([]byte("tags: [go, feign, go]\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"go", "feign"}, meta.Tags)
}

func TestDecode_NonListTags_ReturnsError(t *testing.T) {
	_, err := Decode([]byte("tags: {a: b}\n"))
	require.Error(t, err)
}
