package ashrae

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const stationsKey = "meteo_stations"

// flexString accepts a JSON string, number or null. The API is not
// consistent about quoting numeric fields.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*f = flexString(n.String())
	}
	return nil
}

func (f flexString) float() (float64, error) {
	return strconv.ParseFloat(string(f), 64)
}

// unwrapStations extracts the station entries from a response body. The live
// API wraps them as {"meteo_stations": [...]}; a bare array is accepted too.
// With bareObject set, an object without the envelope key is treated as a
// single entry.
func unwrapStations(body []byte, bareObject bool) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty body")
	}

	var entries []json.RawMessage
	switch body[0] {
	case '[':
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, err
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(body, &obj); err != nil {
			return nil, err
		}
		raw, ok := obj[stationsKey]
		switch {
		case ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")):
			if err := json.Unmarshal(raw, &entries); err != nil {
				return nil, fmt.Errorf("%s: %w", stationsKey, err)
			}
		case !ok && bareObject:
			entries = []json.RawMessage{body}
		}
	default:
		return nil, fmt.Errorf("unexpected payload starting with %q", body[0])
	}

	return entries, nil
}

// flattenFields turns one station object into a flat field map. Numbers keep
// their textual form; nulls, arrays and nested objects are dropped.
func flattenFields(raw json.RawMessage) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(obj))
	for key, value := range obj {
		switch val := value.(type) {
		case string:
			fields[key] = strings.TrimSpace(val)
		case json.Number:
			fields[key] = val.String()
		case bool:
			fields[key] = strconv.FormatBool(val)
		}
	}

	return fields, nil
}
