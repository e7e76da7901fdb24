package controls

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema describes where the sampler controls live in the host UI and how to
// name them. It is the host markup contract made explicit: ids, class tokens
// and strip rules that the panel owner may change without notice.
type Schema struct {
	// PanelID is the element id of the parameters panel root. Enumeration is
	// restricted to this subtree; an absent panel enumerates to nothing.
	PanelID string `yaml:"panel"`

	// BoundaryID is the element id bounding the visibility walk. Ancestors at
	// or above the boundary are not consulted when deciding whether a control
	// is hidden.
	BoundaryID string `yaml:"boundary"`

	// ExcludeIDs are element ids of sub-regions whose controls belong to a
	// different settings provider and must be skipped even when they match.
	ExcludeIDs []string `yaml:"exclude"`

	// DerivedClasses mark number inputs that are secondary displays of
	// another control (a slider's numeric readout) rather than controls.
	DerivedClasses []string `yaml:"derived_classes"`

	// BlockClasses identify the labeled/boxed ancestor that scopes label
	// resolution for a control.
	BlockClasses []string `yaml:"block_classes"`

	// TitleClasses and NoteClasses identify, in fallback order, the elements
	// inside a block that carry the control's display name.
	TitleClasses []string `yaml:"title_classes"`
	NoteClasses  []string `yaml:"note_classes"`

	// StripTokens are removed from raw control ids, in order, as plain
	// substring replacements at any position. The order and the unanchored
	// match are part of the contract with the host markup.
	StripTokens []string `yaml:"strip"`
}

// DefaultSchema returns the contract for the stock chat UI markup.
func DefaultSchema() *Schema {
	return &Schema{
		PanelID:        "sampler-settings",
		BoundaryID:     "settings-drawer",
		ExcludeIDs:     []string{"third-party-samplers"},
		DerivedClasses: []string{"range-readout"},
		BlockClasses:   []string{"range-block", "checkbox-block"},
		TitleClasses:   []string{"block-title"},
		NoteClasses:    []string{"block-hint"},
		StripTokens:    []string{"_counter", "_openai", "_textgen"},
	}
}

// LoadSchema reads a YAML schema file over the defaults: fields absent from
// the file keep their default values.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	s := DefaultSchema()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse schema %s: %w", path, err)
	}
	if s.PanelID == "" {
		return nil, fmt.Errorf("schema %s: panel id must not be empty", path)
	}
	return s, nil
}
