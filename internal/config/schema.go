package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON Schema describing config.json. Every field is
// optional because files are partial layers over the defaults.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
		ExpandedStruct:             true,
	}
	s := r.Reflect(&Config{})
	s.Title = "loclaude configuration"
	s.Description = "Project (.loclaude/config.json) or user (~/.config/loclaude/config.json) settings"
	return json.MarshalIndent(s, "", "  ")
}
