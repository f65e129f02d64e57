package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	UnitPoliticians   = "politicians"
	UnitOrganizations = "organizations"
)

// ExternalId is the id of a linked account (facebook, twitter, wikipedia),
// the service sends these either as numbers or as strings.
type ExternalId string

func (id *ExternalId) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		*id = ExternalId(s)
		return nil
	}

	var n json.Number
	err := json.Unmarshal(data, &n)
	if err != nil {
		return fmt.Errorf("external id must be a string or a number: %w", err)
	}
	*id = ExternalId(n.String())
	return nil
}

// Entity is a politician or an organization, only the id field of its own
// unit is set.
type Entity struct {
	PoliticianId    int64        `json:"politician_id,omitempty"`
	OrganizationId  int64        `json:"organization_id,omitempty"`
	Name            string       `json:"name"`
	Firstname       string       `json:"firstname,omitempty"`
	Affiliation     string       `json:"affiliation,omitempty"`
	Category        string       `json:"category,omitempty"`
	Subcategory     string       `json:"subcategory,omitempty"`
	FacebookIds     []ExternalId `json:"fb_ids"`
	TwitterIds      []ExternalId `json:"tw_ids"`
	WikipediaIds    []ExternalId `json:"wp_ids"`
	WikipediaTitles []string     `json:"wp_titles,omitempty"`

	// every key of the payload as decoded by DecodeValue, including the
	// ones without a typed field
	Fields map[string]any `json:"-"`

	raw json.RawMessage
}

// Id returns the id of the entity in its own unit.
func (e Entity) Id() int64 {
	if e.PoliticianId != 0 {
		return e.PoliticianId
	}
	return e.OrganizationId
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	type plain Entity
	var out plain
	err := json.Unmarshal(data, &out)
	if err != nil {
		return err
	}
	value, err := DecodeValue(data)
	if err != nil {
		return err
	}
	fields, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("entity must be an object")
	}

	*e = Entity(out)
	e.Fields = fields
	e.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the payload the entity was decoded from unmodified.
func (e Entity) MarshalJSON() ([]byte, error) {
	if len(e.raw) > 0 {
		return e.raw, nil
	}
	type plain Entity
	return json.Marshal(plain(e))
}

// AggregatedResponse is the payload of every aggregated activity endpoint,
// Labels[i] is the bucket of Values[i].
type AggregatedResponse struct {
	ResponseType string            `json:"response_type"`
	AggregatedBy string            `json:"aggregated_by"`
	Labels       []string          `json:"labels"`
	Values       []json.RawMessage `json:"values"`
}

// ChangeObject is a single token level edit of a wikipedia revision.
type ChangeObject struct {
	RightToken    json.RawMessage `json:"right_token"`
	LeftToken     json.RawMessage `json:"left_token"`
	InsTokens     json.RawMessage `json:"ins_tokens"`
	DelTokens     json.RawMessage `json:"del_tokens"`
	RightTokenStr json.RawMessage `json:"right_token_str"`
	LeftTokenStr  json.RawMessage `json:"left_token_str"`
	InsTokensStr  json.RawMessage `json:"ins_tokens_str"`
	DelTokensStr  json.RawMessage `json:"del_tokens_str"`
}

// ChobsResponse holds exactly one of its fields: Aggregated when the query
// aggregates, ChangeObjects when aggregation is disabled.
type ChobsResponse struct {
	Aggregated    *AggregatedResponse
	ChangeObjects []ChangeObject
}

func (r ChobsResponse) IsAggregated() bool {
	return r.Aggregated != nil
}

// ShapeError is returned when a response lacks something needed to decode or
// reshape it.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response shape: %s: %s", e.Field, e.Reason)
}

// decodeResponse maps a syntactically valid body onto out, a mismatch
// between the body and out is a *ShapeError.
func decodeResponse(body json.RawMessage, out any) error {
	err := json.Unmarshal(body, out)
	if err == nil {
		return nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &ShapeError{Field: typeErr.Field, Reason: err.Error()}
	}
	return &ShapeError{Field: "body", Reason: err.Error()}
}

// DecodeValue decodes arbitrary JSON, integers become int64 and other numbers
// float64.
func DecodeValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var v any
	err := decoder.Decode(&v)
	if err != nil {
		return nil, err
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch v := v.(type) {
	case json.Number:
		i, err := v.Int64()
		if err == nil {
			return i
		}
		f, err := v.Float64()
		if err == nil {
			return f
		}
		return v.String()
	case []any:
		for i := range v {
			v[i] = normalizeNumbers(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = normalizeNumbers(v[k])
		}
		return v
	default:
		return v
	}
}
