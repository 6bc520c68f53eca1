package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemasLoaded(t *testing.T) {
	assert.ElementsMatch(t, []string{"PropertyRecord/1.0.0", "PropertyUpdatedEvent/1.0.0"}, Schemas())
}

func TestValidateRecord(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"numeric id and cost", `{"id": 12, "title": "Nhà", "cost": 1500000000, "images": ["a.jpg"], "type_posting_id": 4}`, false},
		{"string fields", `{"id": "abc", "cost": "1,5 tỷ", "land_area": "80", "images": ["a.jpg", "b.jpg"]}`, false},
		{"null optional fields", `{"id": "1", "title": null, "content": null, "images": ["a.jpg"]}`, false},
		{"missing images", `{"id": "1"}`, true},
		{"empty images", `{"id": "1", "images": []}`, true},
		{"blank id", `{"id": "  ", "images": ["a.jpg"]}`, true},
		{"missing id", `{"images": ["a.jpg"]}`, true},
		{"not json", `{"id":`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRecord([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEvent(t *testing.T) {
	assert.NoError(t, ValidateEvent(PropertyUpdatedEvent, CurrentSchemaVersion,
		[]byte(`{"property_id": "42", "action": "updated", "updated_at": "2024-05-01T10:00:00Z"}`)))
	assert.NoError(t, ValidateEvent(PropertyUpdatedEvent, CurrentSchemaVersion,
		[]byte(`{"property_id": 42, "action": "deleted"}`)))

	assert.Error(t, ValidateEvent(PropertyUpdatedEvent, CurrentSchemaVersion,
		[]byte(`{"property_id": "42", "action": "archived"}`)))
	assert.Error(t, ValidateEvent(PropertyUpdatedEvent, CurrentSchemaVersion,
		[]byte(`{"property_id": "42", "action": "updated", "updated_at": "yesterday"}`)))
	assert.Error(t, ValidateEvent("UnknownEvent", CurrentSchemaVersion, []byte(`{}`)))
	assert.Error(t, ValidateEvent(PropertyUpdatedEvent, "2.0.0", []byte(`{}`)))
}
