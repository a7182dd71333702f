package query

type (
	// Configuration is a declarative query description, suitable for request
	// payloads and cache keys.
	Configuration struct {
		Page         int       `json:"page,omitempty"         yaml:"page,omitempty"`
		PageSize     int       `json:"pageSize,omitempty"     yaml:"pageSize,omitempty"`
		SelectFields []string  `json:"selectFields,omitempty" yaml:"selectFields,omitempty"`
		Filters      []Filter  `json:"filters,omitempty"      yaml:"filters,omitempty"`
		OrderBy      []OrderBy `json:"orderBy,omitempty"      yaml:"orderBy,omitempty"`
	}

	// Filter is one condition of a Configuration. Operators are normalized
	// with ParseOperator.
	Filter struct {
		PropertyName string `json:"propertyName" yaml:"propertyName"`
		Operator     string `json:"operator"     yaml:"operator"`
		Value        any    `json:"value"        yaml:"value"`
	}

	OrderBy struct {
		PropertyName string `json:"propertyName" yaml:"propertyName"`
		Descending   bool   `json:"descending"   yaml:"descending"`
	}
)

// Spec builds the Spec the configuration describes.
func (c Configuration) Spec() (*Spec, error) {
	builder := &Builder[struct{}]{spec: NewSpec()}
	builder.Apply(c)

	return builder.spec, builder.Err()
}
