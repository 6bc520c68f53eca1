package rabbitmq

import (
	"bytes"
	"encoding/json"
	"time"
)

// propertyUpdatedEventDTO соответствует схеме events/property-updated/v1.json
type propertyUpdatedEventDTO struct {
	PropertyID eventID   `json:"property_id"`
	Action     string    `json:"action"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// eventID принимает идентификатор и строкой, и числом
type eventID string

func (id *eventID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = eventID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = eventID(n.String())
	return nil
}
