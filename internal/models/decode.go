package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// looseID decodes an id written either as a JSON string or as a number (e.g. a Date.now() value).
type looseID string

func (id *looseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = looseID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = looseID(n.String())
	return nil
}

// looseTime decodes RFC 3339 strings, date-only strings and epoch milliseconds (number or numeric string).
// Anything else decodes as the zero time: timestamps are display metadata and never reject a record.
type looseTime time.Time

var looseLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}

func (t *looseTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = looseTime{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	*t = looseTime(parseLooseTime(strings.TrimSpace(raw)))
	return nil
}

func parseLooseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	for _, layout := range looseLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// UnmarshalJSON accepts numeric ids and loosely formatted creation dates.
func (p *Playlist) UnmarshalJSON(data []byte) error {
	type plain Playlist
	aux := struct {
		*plain
		ID        looseID   `json:"id"`
		CreatedAt looseTime `json:"createdAt"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.ID = string(aux.ID)
	p.CreatedAt = time.Time(aux.CreatedAt)
	return nil
}

// UnmarshalJSON accepts numeric ids and loosely formatted dates.
func (q *Question) UnmarshalJSON(data []byte) error {
	type plain Question
	aux := struct {
		*plain
		ID         looseID    `json:"id"`
		DateAdded  looseTime  `json:"dateAdded"`
		DateSolved *looseTime `json:"dateSolved,omitempty"`
	}{plain: (*plain)(q)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	q.ID = string(aux.ID)
	q.DateAdded = time.Time(aux.DateAdded)
	q.DateSolved = nil
	if aux.DateSolved != nil && !time.Time(*aux.DateSolved).IsZero() {
		solved := time.Time(*aux.DateSolved)
		q.DateSolved = &solved
	}
	return nil
}

// UnmarshalJSON accepts numeric ids.
func (v *Video) UnmarshalJSON(data []byte) error {
	type plain Video
	aux := struct {
		*plain
		ID looseID `json:"id"`
	}{plain: (*plain)(v)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	v.ID = string(aux.ID)
	return nil
}
