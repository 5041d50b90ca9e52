// Package catalog lists the voice personas and languages offered by the
// studio. The built-in set mirrors the remote API's catalog; a JSON manifest
// can override it for deployments with a different voice roster.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Voice is a selectable persona.
type Voice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Language is a selectable language/region.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type manifest struct {
	Voices    []Voice    `json:"voices"`
	Languages []Language `json:"languages"`
}

// Catalog resolves voice and language identifiers to display data.
type Catalog struct {
	voices    []Voice
	languages []Language
	voiceByID map[string]Voice
	langByID  map[string]Language
}

func defaultManifest() manifest {
	return manifest{
		Voices: []Voice{
			{ID: "zephyr", Label: "Zephyr — Bright"},
			{ID: "puck", Label: "Puck — Upbeat"},
			{ID: "charon", Label: "Charon — Informative"},
			{ID: "kore", Label: "Kore — Firm"},
			{ID: "fenrir", Label: "Fenrir — Excitable"},
			{ID: "aoede", Label: "Aoede — Breezy"},
		},
		Languages: []Language{
			{Code: "en-US", Name: "English (US)"},
			{Code: "en-GB", Name: "English (UK)"},
			{Code: "de-DE", Name: "German"},
			{Code: "fr-FR", Name: "French"},
			{Code: "es-ES", Name: "Spanish"},
			{Code: "it-IT", Name: "Italian"},
			{Code: "ja-JP", Name: "Japanese"},
			{Code: "pt-BR", Name: "Portuguese (Brazil)"},
		},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := build(defaultManifest())
	if err != nil {
		// The built-in manifest is validated by tests.
		panic(err)
	}
	return c
}

// Load reads a manifest file and builds a catalog from it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog manifest: %w", err)
	}

	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode catalog manifest: %w", err)
	}

	return build(m)
}

func build(m manifest) (*Catalog, error) {
	if len(m.Voices) == 0 {
		return nil, errors.New("catalog has no voices")
	}
	if len(m.Languages) == 0 {
		return nil, errors.New("catalog has no languages")
	}

	c := &Catalog{
		voices:    append([]Voice(nil), m.Voices...),
		languages: append([]Language(nil), m.Languages...),
		voiceByID: make(map[string]Voice, len(m.Voices)),
		langByID:  make(map[string]Language, len(m.Languages)),
	}

	for _, v := range m.Voices {
		if v.ID == "" {
			return nil, errors.New("catalog contains voice with empty id")
		}
		if _, exists := c.voiceByID[v.ID]; exists {
			return nil, fmt.Errorf("duplicate voice id %q", v.ID)
		}
		c.voiceByID[v.ID] = v
	}

	for _, l := range m.Languages {
		if l.Code == "" {
			return nil, errors.New("catalog contains language with empty code")
		}
		if _, exists := c.langByID[l.Code]; exists {
			return nil, fmt.Errorf("duplicate language code %q", l.Code)
		}
		c.langByID[l.Code] = l
	}

	return c, nil
}

// Voices returns all personas in manifest order.
func (c *Catalog) Voices() []Voice {
	return append([]Voice(nil), c.voices...)
}

// Languages returns all languages in manifest order.
func (c *Catalog) Languages() []Language {
	return append([]Language(nil), c.languages...)
}

// Voice resolves a persona by ID.
func (c *Catalog) Voice(id string) (Voice, error) {
	v, ok := c.voiceByID[id]
	if !ok {
		return Voice{}, fmt.Errorf("unknown voice id %q", id)
	}
	return v, nil
}

// Language resolves a language by code.
func (c *Catalog) Language(code string) (Language, error) {
	l, ok := c.langByID[code]
	if !ok {
		return Language{}, fmt.Errorf("unknown language code %q", code)
	}
	return l, nil
}
