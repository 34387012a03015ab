package llm

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildExtractionSchema constrains field types only. Nothing is required and
// extra keys are allowed: absent fields are unset, not errors, and
// data_nascita stays a plain string because a malformed date must degrade to a
// null date during normalization rather than reject the record.
func buildExtractionSchema() map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	stringList := map[string]any{
		"type":  []string{"array", "null"},
		"items": map[string]any{"type": "string"},
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"nome":                     nullableString,
			"cognome":                  nullableString,
			"citta":                    nullableString,
			"data_nascita":             nullableString,
			"email":                    nullableString,
			"cellulare":                nullableString,
			"anni_esperienza":          map[string]any{"type": []string{"integer", "null"}},
			"competenze":               nullableString,
			"tools":                    stringList,
			"database":                 stringList,
			"piattaforme":              stringList,
			"sistemi_operativi":        stringList,
			"linguaggi_programmazione": stringList,
		},
	}
}

func compileExtractionSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(buildExtractionSchema())
	if err != nil {
		return nil, eris.Wrap(err, "marshal schema")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(raw)); err != nil {
		return nil, eris.Wrap(err, "add schema resource")
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return nil, eris.Wrap(err, "compile schema")
	}
	return schema, nil
}
