package schema

import "gorm.io/datatypes"

// Attribute is a key/value pair embedded in a class or instance
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attributes is the ordered attribute list stored as jsonb on its owner
type Attributes = datatypes.JSONSlice[Attribute]

// SetAttribute updates the first entry with the key, or appends a new one
func SetAttribute(attrs Attributes, key, value string) Attributes {
	for i := range attrs {
		if attrs[i].Key == key {
			attrs[i].Value = value
			return attrs
		}
	}
	return append(attrs, Attribute{Key: key, Value: value})
}

// ClearAttribute returns the list without any entry matching the key
func ClearAttribute(attrs Attributes, key string) Attributes {
	out := make(Attributes, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Key != key {
			out = append(out, attr)
		}
	}
	return out
}
