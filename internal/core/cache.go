package core

import (
	"encoding/json"
	"time"
)

// UpdateCache is the host's "known versions" cache for one asset kind. It
// holds the installed versions the host last checked (the baseline) and the
// update records published for them.
//
// An UpdateCache is a value: the With* methods return modified copies and
// never alter the receiver, so a cache handed to the checker cannot be
// changed behind the host's back.
type UpdateCache struct {
	lastChecked time.Time
	checked     map[string]string
	response    map[string]UpdateRecord
}

// NewUpdateCache returns a cache whose baseline is checked (slug to
// installed version). The map is copied.
func NewUpdateCache(checked map[string]string) UpdateCache {
	return UpdateCache{checked: copyStrings(checked)}
}

// HasBaseline reports whether the checked marker is non-empty. Without a
// baseline no network call is made.
func (c UpdateCache) HasBaseline() bool {
	return len(c.checked) > 0
}

// Checked returns a copy of the baseline.
func (c UpdateCache) Checked() map[string]string {
	return copyStrings(c.checked)
}

// LastChecked returns when the host last stamped the cache.
func (c UpdateCache) LastChecked() time.Time {
	return c.lastChecked
}

// Response returns the update record published for slug.
func (c UpdateCache) Response(slug string) (UpdateRecord, bool) {
	r, ok := c.response[slug]
	return r, ok
}

// Responses returns a copy of all published update records.
func (c UpdateCache) Responses() map[string]UpdateRecord {
	out := make(map[string]UpdateRecord, len(c.response))
	for k, v := range c.response {
		out[k] = v
	}
	return out
}

// Len returns the number of published update records.
func (c UpdateCache) Len() int {
	return len(c.response)
}

// WithChecked returns a copy with slug's installed version recorded in the
// baseline.
func (c UpdateCache) WithChecked(slug, installed string) UpdateCache {
	out := c.clone()
	if out.checked == nil {
		out.checked = make(map[string]string)
	}
	out.checked[slug] = installed
	return out
}

// WithResponse returns a copy with record stored under record.Slug,
// replacing any earlier record for that slug.
func (c UpdateCache) WithResponse(record UpdateRecord) UpdateCache {
	out := c.clone()
	if out.response == nil {
		out.response = make(map[string]UpdateRecord)
	}
	out.response[record.Slug] = record
	return out
}

// WithLastChecked returns a copy stamped with t.
func (c UpdateCache) WithLastChecked(t time.Time) UpdateCache {
	out := c.clone()
	out.lastChecked = t
	return out
}

// Equal reports whether two caches hold the same baseline, records and stamp.
func (c UpdateCache) Equal(other UpdateCache) bool {
	if !c.lastChecked.Equal(other.lastChecked) || len(c.checked) != len(other.checked) || len(c.response) != len(other.response) {
		return false
	}
	for k, v := range c.checked {
		if ov, ok := other.checked[k]; !ok || ov != v {
			return false
		}
	}
	for k, v := range c.response {
		if ov, ok := other.response[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

func (c UpdateCache) clone() UpdateCache {
	out := UpdateCache{
		lastChecked: c.lastChecked,
		checked:     copyStrings(c.checked),
	}
	if c.response != nil {
		out.response = c.Responses()
	}
	return out
}

type updateCacheJSON struct {
	LastChecked time.Time               `json:"last_checked,omitzero"`
	Checked     map[string]string       `json:"checked,omitempty"`
	Response    map[string]UpdateRecord `json:"response,omitempty"`
}

func (c UpdateCache) MarshalJSON() ([]byte, error) {
	return json.Marshal(updateCacheJSON{
		LastChecked: c.lastChecked,
		Checked:     c.checked,
		Response:    c.response,
	})
}

func (c *UpdateCache) UnmarshalJSON(data []byte) error {
	var in updateCacheJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*c = UpdateCache{
		lastChecked: in.LastChecked,
		checked:     in.Checked,
		response:    in.Response,
	}
	return nil
}

func copyStrings(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
