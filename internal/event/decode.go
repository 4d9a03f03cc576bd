package event

import (
	"encoding/json"
	"fmt"
)

// DecodePayload converts an event payload into T. MemoryBus delivers the
// struct itself (or a pointer to it); the AMQP bus and the dead-letter file
// deliver JSON, either raw or already unmarshalled into generic maps.
func DecodePayload[T any](input interface{}) (T, error) {
	var result T
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v == nil {
			return result, fmt.Errorf("decode %T: nil payload", result)
		}
		return *v, nil
	case json.RawMessage:
		return result, json.Unmarshal(v, &result)
	case []byte:
		return result, json.Unmarshal(v, &result)
	}

	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}
