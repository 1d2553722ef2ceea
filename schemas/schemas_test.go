package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-matcher/internal/schemas"
)

func TestSeedSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile("seed.schema.json")
	require.NoError(t, err, "should be able to read schema file")

	var schemaObj map[string]interface{}
	err = json.Unmarshal(data, &schemaObj)
	require.NoError(t, err, "schema file should be valid JSON")

	_, hasType := schemaObj["type"]
	_, hasSchema := schemaObj["$schema"]
	_, hasProps := schemaObj["properties"]
	assert.True(t, hasType && hasSchema && hasProps,
		"schema should declare type, $schema, and properties")
}

func TestSeedData_MatchesSchema(t *testing.T) {
	err := schemas.ValidateJSON("seed.schema.json", "seed.json")
	assert.NoError(t, err, "bundled seed data should validate against the seed schema")
}

func TestSeedSchema_RejectsBadDocuments(t *testing.T) {
	schemaData, err := os.ReadFile("seed.schema.json")
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "missing required sections",
			doc:  `{"subjects": []}`,
		},
		{
			name: "grade above scale",
			doc: `{"subjects": [], "students": [{
				"email": "a@b.edu", "full_name": "A", "registration_number": "1",
				"course": "CS", "semester": 1,
				"grades": [{"subject_code": "X1", "grade": 11, "term_label": "2025.1"}]
			}], "companies": []}`,
		},
		{
			name: "bad term label",
			doc: `{"subjects": [], "students": [{
				"email": "a@b.edu", "full_name": "A", "registration_number": "1",
				"course": "CS", "semester": 1,
				"grades": [{"subject_code": "X1", "grade": 8, "term_label": "first-half"}]
			}], "companies": []}`,
		},
		{
			name: "unknown work type",
			doc: `{"subjects": [], "students": [], "companies": [{
				"email": "rh@x.com", "company_name": "X", "cnpj": "12345678000190",
				"jobs": [{"title": "T", "description": "D", "location": "L",
				          "work_type": "office", "job_type": "internship"}]
			}]}`,
		},
		{
			name: "malformed cnpj",
			doc: `{"subjects": [], "students": [], "companies": [{
				"email": "rh@x.com", "company_name": "X", "cnpj": "12.345.678/0001-90"
			}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schemas.ValidateJSONString(string(schemaData), tt.doc)
			assert.Error(t, err, "document should fail validation")
		})
	}
}
