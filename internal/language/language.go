// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package language lists the languages the backend can analyze, chat and
// speak in. Requests carry the English display name ("Hindi"); the BCP-47
// tag is kept for speech and for matching user input such as "hi" or "ta-IN".
package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is one supported language.
type Language struct {
	// Name is the value sent to the backend.
	Name string

	// Native is the name written in the language itself.
	Native string

	Tag language.Tag
}

// Code returns the BCP-47 code, e.g. "hi-IN".
func (l Language) Code() string {
	return l.Tag.String()
}

func (l Language) String() string {
	return l.Name
}

// Default is the language used when none is configured.
const Default = "English"

// All is the fixed list of supported languages, in display order.
var All = []Language{
	{Name: "English", Native: "English", Tag: language.MustParse("en-US")},
	{Name: "Hindi", Native: "हिन्दी", Tag: language.MustParse("hi-IN")},
	{Name: "Gujarati", Native: "ગુજરાતી", Tag: language.MustParse("gu-IN")},
	{Name: "Kannada", Native: "ಕನ್ನಡ", Tag: language.MustParse("kn-IN")},
	{Name: "Marathi", Native: "मराठी", Tag: language.MustParse("mr-IN")},
	{Name: "Tamil", Native: "தமிழ்", Tag: language.MustParse("ta-IN")},
	{Name: "Telugu", Native: "తెలుగు", Tag: language.MustParse("te-IN")},
}

var matcher = func() language.Matcher {
	tags := make([]language.Tag, len(All))
	for i, l := range All {
		tags[i] = l.Tag
	}
	return language.NewMatcher(tags)
}()

// Parse resolves a display name ("tamil"), native name or BCP-47 tag ("ta",
// "ta-IN") to a supported language.
func Parse(s string) (Language, error) {
	s = strings.TrimSpace(s)
	for _, l := range All {
		if strings.EqualFold(l.Name, s) || l.Native == s {
			return l, nil
		}
	}

	tag, err := language.Parse(s)
	if err == nil {
		_, idx, conf := matcher.Match(tag)
		if conf >= language.High {
			return All[idx], nil
		}
	}
	return Language{}, fmt.Errorf("unsupported language %q (choose one of: %s)", s, strings.Join(Names(), ", "))
}

// MustParse is like Parse but panics on unknown input.
func MustParse(s string) Language {
	l, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return l
}

// Valid reports whether name is a supported display name.
func Valid(name string) bool {
	_, err := Parse(name)
	return err == nil
}

// Names returns the display names in order.
func Names() []string {
	names := make([]string, len(All))
	for i, l := range All {
		names[i] = l.Name
	}
	return names
}

// Next returns the language after name in All, wrapping around. Unknown
// names yield the first language.
func Next(name string) Language {
	for i, l := range All {
		if l.Name == name {
			return All[(i+1)%len(All)]
		}
	}
	return All[0]
}
