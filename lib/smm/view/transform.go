package view

import (
	"encoding/json"
	"fmt"
	"smm-wrapper/lib/smm/api"
	"time"
)

// Echo is a query parameter copied into every row of a table, so that each
// row records which query produced it.
type Echo struct {
	Column string
	Value  string
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a bucket label of the service, dates without a time
// of day are returned as midnight UTC.
func ParseDate(label string) (time.Time, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, label)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", label)
}

// AggregatedTable turns a bucketed activity response into a table with the
// columns `date`, valueColumn and then one column per echo. The metadata
// fields of the response are dropped and the response itself is not modified.
func AggregatedTable(res api.AggregatedResponse, valueColumn string, echoes []Echo) (Table, error) {
	if res.Labels == nil {
		return Table{}, &ShapeError{Field: "labels", Reason: "missing"}
	}
	if res.Values == nil {
		return Table{}, &ShapeError{Field: "values", Reason: "missing"}
	}
	if len(res.Labels) != len(res.Values) {
		return Table{}, &ShapeError{
			Field:  "values",
			Reason: fmt.Sprintf(
				"has %d entries but labels has %d",
				len(res.Values), len(res.Labels),
			),
		}
	}

	columns := make([]string, 0, 2+len(echoes))
	columns = append(columns, "date", valueColumn)
	for _, e := range echoes {
		columns = append(columns, e.Column)
	}

	rows := make([][]any, len(res.Labels))
	for i, label := range res.Labels {
		date, err := ParseDate(label)
		if err != nil {
			return Table{}, &ShapeError{Field: "labels", Reason: err.Error()}
		}
		value, err := api.DecodeValue(res.Values[i])
		if err != nil {
			return Table{}, &ShapeError{
				Field:  "values",
				Reason: fmt.Sprintf("entry %d: %s", i, err.Error()),
			}
		}

		row := make([]any, 0, len(columns))
		row = append(row, date, value)
		for _, e := range echoes {
			row = append(row, e.Value)
		}
		rows[i] = row
	}

	return Table{Columns: columns, Rows: rows}, nil
}

var ChangeObjectColumns = []string{
	"right_token",
	"left_token",
	"ins_tokens",
	"del_tokens",
	"right_token_str",
	"left_token_str",
	"ins_tokens_str",
	"del_tokens_str",
}

// ChangeObjectTable lists one change object per row in the given order.
func ChangeObjectTable(objects []api.ChangeObject) (Table, error) {
	rows := make([][]any, len(objects))
	for i, chob := range objects {
		raws := []json.RawMessage{
			chob.RightToken,
			chob.LeftToken,
			chob.InsTokens,
			chob.DelTokens,
			chob.RightTokenStr,
			chob.LeftTokenStr,
			chob.InsTokensStr,
			chob.DelTokensStr,
		}
		row := make([]any, len(raws))
		for j, raw := range raws {
			value, err := api.DecodeValue(raw)
			if err != nil {
				return Table{}, &ShapeError{
					Field:  ChangeObjectColumns[j],
					Reason: fmt.Sprintf("change object %d: %s", i, err.Error()),
				}
			}
			row[j] = value
		}
		rows[i] = row
	}
	return Table{
		Columns: append([]string(nil), ChangeObjectColumns...),
		Rows:    rows,
	}, nil
}

var entityFields = map[string]func(e api.Entity) any{
	"politician_id":   func(e api.Entity) any { return e.PoliticianId },
	"organization_id": func(e api.Entity) any { return e.OrganizationId },
	"name":            func(e api.Entity) any { return e.Name },
	"firstname":       func(e api.Entity) any { return e.Firstname },
	"affiliation":     func(e api.Entity) any { return e.Affiliation },
	"category":        func(e api.Entity) any { return e.Category },
	"subcategory":     func(e api.Entity) any { return e.Subcategory },
	"fb_ids":          func(e api.Entity) any { return e.FacebookIds },
	"tw_ids":          func(e api.Entity) any { return e.TwitterIds },
	"wp_ids":          func(e api.Entity) any { return e.WikipediaIds },
	"wp_titles":       func(e api.Entity) any { return e.WikipediaTitles },
}

var PoliticianColumns = []string{
	"politician_id", "name", "firstname", "affiliation", "fb_ids", "tw_ids", "wp_ids",
}

var OrganizationColumns = []string{
	"organization_id", "name", "category", "subcategory", "fb_ids", "tw_ids", "wp_ids", "wp_titles",
}

// EntityColumns returns the columns entity tables of a unit are projected
// on, with idColumn first.
func EntityColumns(unit, idColumn string) []string {
	columns := PoliticianColumns
	if unit == api.UnitOrganizations {
		columns = OrganizationColumns
	}

	out := []string{idColumn}
	for _, c := range columns[1:] {
		if c != idColumn {
			out = append(out, c)
		}
	}
	return out
}

// entityValue reads column from the decoded payload, entities built in code
// without a payload fall back to their typed fields. The id column falls
// back to the unit id when the payload does not carry it.
func entityValue(e api.Entity, column, idColumn string) any {
	if e.Fields != nil {
		value, ok := e.Fields[column]
		if ok {
			return value
		}
	} else if field, ok := entityFields[column]; ok {
		return field(e)
	}
	if column == idColumn {
		return e.Id()
	}
	return nil
}

func projectEntity(e api.Entity, columns []string, idColumn string) []any {
	row := make([]any, len(columns))
	for i, c := range columns {
		row[i] = entityValue(e, c, idColumn)
	}
	return row
}

// EntityTable projects entities onto the given columns by payload key,
// index must be one of them.
func EntityTable(entities []api.Entity, columns []string, idColumn, index string) Table {
	rows := make([][]any, len(entities))
	for i, e := range entities {
		rows[i] = projectEntity(e, columns, idColumn)
	}
	return Table{Columns: columns, Rows: rows, Index: index}
}

func EntityRecord(e api.Entity, columns []string, idColumn string) Record {
	values := projectEntity(e, columns, idColumn)
	record := make(Record, len(columns))
	for i, c := range columns {
		record[i] = Field{Key: c, Value: values[i]}
	}
	return record
}
