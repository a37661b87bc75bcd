package storage

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sync"

	"github.com/pixil98/go-errors"
)

// AssetVersion is the envelope version written by this build. Assets with a
// newer version are refused rather than silently rewritten.
const AssetVersion = 1

var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)

// ValidatingSpec is implemented by every record kept in a Storer.
type ValidatingSpec interface {
	Validate() error
}

// Asset is the envelope written to disk or to a bolt bucket for each record.
type Asset[T ValidatingSpec] struct {
	Version    uint   `json:"version"`
	Identifier string `json:"id"`
	Spec       T      `json:"spec"`
}

func (a *Asset[T]) Id() string {
	return a.Identifier
}

func (a *Asset[T]) Validate() error {
	el := errors.NewErrorList()

	switch {
	case a.Version == 0:
		el.Add(fmt.Errorf("version must be set"))
	case a.Version > AssetVersion:
		el.Add(fmt.Errorf("version %d is newer than supported version %d", a.Version, AssetVersion))
	}

	if !ValidIdentifier(a.Identifier) {
		el.Add(fmt.Errorf("id %q must be non-empty letters, digits and hyphens", a.Identifier))
	}

	el.Add(a.Spec.Validate())

	return el.Err()
}

// ValidIdentifier reports whether id can be used as a storage key.
func ValidIdentifier(id string) bool {
	return id != "" && identifierPattern.MatchString(id)
}

// encodeAsset validates spec under id and returns its stored form.
func encodeAsset[T ValidatingSpec](id string, spec T) ([]byte, error) {
	asset := &Asset[T]{Version: AssetVersion, Identifier: id, Spec: spec}
	if err := asset.Validate(); err != nil {
		return nil, fmt.Errorf("validating %s: %w", id, err)
	}
	data, err := json.Marshal(asset)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", id, err)
	}
	return data, nil
}

// decodeAsset parses and validates a stored asset.
func decodeAsset[T ValidatingSpec](data []byte) (*Asset[T], error) {
	asset := &Asset[T]{}
	if err := json.Unmarshal(data, asset); err != nil {
		return nil, fmt.Errorf("unmarshalling asset: %w", err)
	}
	if err := asset.Validate(); err != nil {
		return nil, err
	}
	return asset, nil
}

// records is the in-memory cache every store serves reads from.
type records[T any] struct {
	mu   sync.RWMutex
	byId map[string]T
}

func (r *records[T]) get(id string) T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byId[id]
}

func (r *records[T]) all() map[string]T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]T, len(r.byId))
	for k, v := range r.byId {
		out[k] = v
	}
	return out
}
