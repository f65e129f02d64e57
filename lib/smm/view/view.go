package view

import (
	"context"
	"fmt"
	"smm-wrapper/lib/assert"
	"smm-wrapper/lib/smm/api"
	"smm-wrapper/lib/telemetry"
)

const (
	report_data_view_entities = "data_view.entities"
	report_data_view_activity = "data_view.activity"
	report_data_view_rows     = "data_view.rows"
)

// DataView returns the responses of an api.Client as tables.
type DataView struct {
	api *api.Client
	tel telemetry.API
}

func NewDataView(client *api.Client, tel telemetry.API) *DataView {
	assert.NotNil(client)
	assert.NotNil(tel)
	return &DataView{
		api: client,
		tel: telemetry.NewScopedAPI("smm_view", tel),
	}
}

func (dv *DataView) Api() *api.Client {
	return dv.api
}

func (dv *DataView) entityColumns() []string {
	return EntityColumns(dv.api.Unit(), dv.api.IdColumn())
}

// GetAll returns all entities of the unit indexed by the id column.
func (dv *DataView) GetAll(ctx context.Context) (Table, error) {
	entities, err := dv.api.GetAll(ctx)
	if err != nil {
		return Table{}, err
	}
	return EntityTable(entities, dv.entityColumns(), dv.api.IdColumn(), dv.api.IdColumn()), nil
}

func (dv *DataView) requireUnit(unit string) error {
	if dv.api.Unit() != unit {
		err := fmt.Errorf("%w: want %s, client is %s", ErrWrongUnit, unit, dv.api.Unit())
		dv.tel.ReportBroken(report_data_view_entities, err)
		return err
	}
	return nil
}

// GetPoliticians is GetAll for clients of the politicians unit.
func (dv *DataView) GetPoliticians(ctx context.Context) (Table, error) {
	err := dv.requireUnit(api.UnitPoliticians)
	if err != nil {
		return Table{}, err
	}
	return dv.GetAll(ctx)
}

// GetOrganizations is GetAll for clients of the organizations unit.
func (dv *DataView) GetOrganizations(ctx context.Context) (Table, error) {
	err := dv.requireUnit(api.UnitOrganizations)
	if err != nil {
		return Table{}, err
	}
	return dv.GetAll(ctx)
}

// GetOne returns a single entity as a record.
func (dv *DataView) GetOne(ctx context.Context, id string) (Record, error) {
	entity, err := dv.api.GetOne(ctx, id)
	if err != nil {
		return nil, err
	}
	return EntityRecord(entity, dv.entityColumns(), dv.api.IdColumn()), nil
}

func (dv *DataView) GetPolitician(ctx context.Context, id string) (Record, error) {
	err := dv.requireUnit(api.UnitPoliticians)
	if err != nil {
		return nil, err
	}
	return dv.GetOne(ctx, id)
}

func (dv *DataView) GetOrganization(ctx context.Context, id string) (Record, error) {
	err := dv.requireUnit(api.UnitOrganizations)
	if err != nil {
		return nil, err
	}
	return dv.GetOne(ctx, id)
}

// Search returns the matching entities indexed by name.
func (dv *DataView) Search(ctx context.Context, params api.SearchParams) (Table, error) {
	entities, err := dv.api.Search(ctx, params)
	if err != nil {
		return Table{}, err
	}
	return EntityTable(entities, dv.entityColumns(), dv.api.IdColumn(), "name"), nil
}

// echoes lists the parameters the caller supplied, in the order identifier,
// text_contains, from_date, to_date.
func (dv *DataView) echoes(family api.Family, sel api.Selector, q api.Query) []Echo {
	var echoes []Echo
	switch sel.Kind {
	case api.SelectPlatformId:
		echoes = append(echoes, Echo{Column: family.PlatformIdName, Value: sel.Id})
	case api.SelectEntityId:
		echoes = append(echoes, Echo{Column: dv.api.IdColumn(), Value: sel.Id})
	}
	if q.TextContains != "" {
		echoes = append(echoes, Echo{Column: "text_contains", Value: q.TextContains})
	}
	if q.FromDate != "" {
		echoes = append(echoes, Echo{Column: "from_date", Value: q.FromDate})
	}
	if q.ToDate != "" {
		echoes = append(echoes, Echo{Column: "to_date", Value: q.ToDate})
	}
	return echoes
}

func (dv *DataView) aggregatedTable(
	family api.Family,
	sel api.Selector,
	q api.Query,
	valueColumn string,
	res api.AggregatedResponse,
) (Table, error) {
	table, err := AggregatedTable(res, valueColumn, dv.echoes(family, sel, q))
	if err != nil {
		err = fmt.Errorf("%s: %w", family.Name, err)
		dv.tel.ReportBroken(report_data_view_activity, err)
		return Table{}, err
	}
	dv.tel.ReportCount(report_data_view_rows, int64(table.Len()))
	return table, nil
}

// TweetsBy returns monthly (or q.AggregateBy) tweet counts in the column `tweets`.
func (dv *DataView) TweetsBy(ctx context.Context, sel api.Selector, q api.Query) (Table, error) {
	res, err := dv.api.TweetsBy(ctx, sel, q)
	if err != nil {
		return Table{}, err
	}
	return dv.aggregatedTable(api.TweetsBy, sel, q, "tweets", res)
}

func (dv *DataView) RepliesTo(ctx context.Context, sel api.Selector, q api.Query) (Table, error) {
	res, err := dv.api.RepliesTo(ctx, sel, q)
	if err != nil {
		return Table{}, err
	}
	return dv.aggregatedTable(api.RepliesTo, sel, q, "replies", res)
}

func (dv *DataView) PostsBy(ctx context.Context, sel api.Selector, q api.Query) (Table, error) {
	res, err := dv.api.PostsBy(ctx, sel, q)
	if err != nil {
		return Table{}, err
	}
	return dv.aggregatedTable(api.PostsBy, sel, q, "posts", res)
}

func (dv *DataView) CommentsBy(ctx context.Context, sel api.Selector, q api.Query) (Table, error) {
	res, err := dv.api.CommentsBy(ctx, sel, q)
	if err != nil {
		return Table{}, err
	}
	return dv.aggregatedTable(api.CommentsBy, sel, q, "comments", res)
}

// Wikipedia returns bucketed change object counts in the column `chobs`, or
// with q.DisableAggregation, one change object per row.
func (dv *DataView) Wikipedia(ctx context.Context, sel api.Selector, q api.Query) (Table, error) {
	res, err := dv.api.Wikipedia(ctx, sel, q)
	if err != nil {
		return Table{}, err
	}
	if !q.DisableAggregation {
		return dv.aggregatedTable(api.WikipediaChobs, sel, q, "chobs", *res.Aggregated)
	}

	table, err := ChangeObjectTable(res.ChangeObjects)
	if err != nil {
		err = fmt.Errorf("%s: %w", api.WikipediaChobs.Name, err)
		dv.tel.ReportBroken(report_data_view_activity, err)
		return Table{}, err
	}
	dv.tel.ReportCount(report_data_view_rows, int64(table.Len()))
	return table, nil
}

// GeneralTweets returns tweet counts of the general population in the column `tweets`.
func (dv *DataView) GeneralTweets(ctx context.Context, twitterUserId string, q api.Query) (Table, error) {
	res, err := dv.api.GeneralTweets(ctx, twitterUserId, q)
	if err != nil {
		return Table{}, err
	}
	sel := api.SelectFirst(twitterUserId, "")
	return dv.aggregatedTable(api.GeneralPopulation, sel, q, "tweets", res)
}
