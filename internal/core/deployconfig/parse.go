package deployconfig

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a descriptor document. Unknown fields are rejected so
// typos in hand-edited files surface instead of being dropped silently.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return d, nil
}
