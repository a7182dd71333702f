package browser

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"time"

	"github.com/architeacher/docrepo/pkg/cmis"
)

type (
	wireProperty struct {
		ID          string          `json:"id"`
		LocalName   string          `json:"localName"`
		DisplayName string          `json:"displayName"`
		QueryName   string          `json:"queryName"`
		Type        string          `json:"type"`
		Cardinality string          `json:"cardinality"`
		Value       json.RawMessage `json:"value"`
	}

	wireObject struct {
		Properties         map[string]wireProperty    `json:"properties"`
		SuccinctProperties map[string]json.RawMessage `json:"succinctProperties"`
	}

	wireQueryResult struct {
		Results      []wireObject `json:"results"`
		HasMoreItems bool         `json:"hasMoreItems"`
		NumItems     int64        `json:"numItems"`
	}

	wireChildren struct {
		Objects []struct {
			Object wireObject `json:"object"`
		} `json:"objects"`
		HasMoreItems bool  `json:"hasMoreItems"`
		NumItems     int64 `json:"numItems"`
	}

	wireParent struct {
		Object              wireObject `json:"object"`
		RelativePathSegment string     `json:"relativePathSegment"`
	}

	wireException struct {
		Exception string `json:"exception"`
		Message   string `json:"message"`
	}
)

func (w wireObject) record() *cmis.Record {
	if len(w.Properties) > 0 {
		properties := make([]cmis.Property, 0, len(w.Properties))

		for _, key := range slices.Sorted(maps.Keys(w.Properties)) {
			p := w.Properties[key]
			id := p.ID
			if id == "" {
				id = key
			}

			properties = append(properties, cmis.Property{
				ID:          id,
				LocalName:   p.LocalName,
				QueryName:   firstNonEmpty(p.QueryName, key),
				DisplayName: p.DisplayName,
				Type:        cmis.PropertyType(p.Type),
				Values:      decodeValues(p.Value, cmis.PropertyType(p.Type)),
			})
		}

		return cmis.NewRecord(properties...)
	}

	properties := make([]cmis.Property, 0, len(w.SuccinctProperties))
	for _, key := range slices.Sorted(maps.Keys(w.SuccinctProperties)) {
		properties = append(properties, cmis.NewProperty(key, decodeValues(w.SuccinctProperties[key], "")...))
	}

	return cmis.NewRecord(properties...)
}

func (w wireObject) object() *cmis.Object {
	return &cmis.Object{Record: *w.record()}
}

// decodeValues turns a property value into its values. Null yields none and
// arrays yield one value per element.
func decodeValues(raw json.RawMessage, propertyType cmis.PropertyType) []any {
	if len(raw) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil || value == nil {
		return nil
	}

	elements, ok := value.([]any)
	if !ok {
		return []any{convertValue(value, propertyType)}
	}

	values := make([]any, 0, len(elements))
	for _, element := range elements {
		values = append(values, convertValue(element, propertyType))
	}

	return values
}

func convertValue(value any, propertyType cmis.PropertyType) any {
	number, isNumber := value.(json.Number)

	switch {
	case value == nil:
		return nil
	case propertyType == cmis.PropertyTypeDateTime && isNumber:
		millis, err := number.Int64()
		if err != nil {
			return value
		}

		return time.UnixMilli(millis).UTC()
	case propertyType == cmis.PropertyTypeDateTime:
		text, _ := value.(string)

		parsed, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return value
		}

		return parsed
	case propertyType == cmis.PropertyTypeInteger && isNumber:
		if integer, err := number.Int64(); err == nil {
			return integer
		}

		return number.String()
	case propertyType == cmis.PropertyTypeDecimal && isNumber:
		if decimal, err := number.Float64(); err == nil {
			return decimal
		}

		return number.String()
	case isNumber:
		if integer, err := number.Int64(); err == nil {
			return integer
		}

		if decimal, err := number.Float64(); err == nil {
			return decimal
		}

		return number.String()
	default:
		return value
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}

	return ""
}
