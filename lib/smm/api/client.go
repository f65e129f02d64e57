package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"smm-wrapper/lib/assert"
	"smm-wrapper/lib/smm/core"
	"smm-wrapper/lib/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("smm-wrapper/lib/smm/api")

var ErrNoSearchSelector = errors.New("search requires either names_contain or an id")

type ClientOptions struct {
	// the column holding the entity id of the unit, defaults to
	// politician_id or organization_id
	IdColumn string
}

// Client exposes the endpoints of a single unit and returns the decoded
// responses as they were sent.
type Client struct {
	core     *core.Client
	unit     string
	idColumn string
}

func NewClient(coreClient *core.Client, opts ClientOptions) *Client {
	assert.NotNil(coreClient)

	unit := coreClient.Unit()
	assert.NotEmptyStr(unit)
	if opts.IdColumn == "" {
		opts.IdColumn = DefaultIdColumn(unit)
	}
	return &Client{
		core:     coreClient,
		unit:     unit,
		idColumn: opts.IdColumn,
	}
}

func DefaultIdColumn(unit string) string {
	switch unit {
	case UnitPoliticians:
		return "politician_id"
	case UnitOrganizations:
		return "organization_id"
	default:
		return "id"
	}
}

func (c *Client) Unit() string {
	return c.unit
}

func (c *Client) IdColumn() string {
	return c.idColumn
}

func (c *Client) Core() *core.Client {
	return c.core
}

// get fetches the endpoint and decodes the body into out. Only transport
// failures and invalid JSON are retried, a body that is valid JSON but does
// not fit out is a *ShapeError.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	var body json.RawMessage
	err := c.core.Request(ctx, endpoint, query, &body)
	if err != nil {
		return err
	}
	return decodeResponse(body, out)
}

// GetAll returns every entity of the unit.
func (c *Client) GetAll(ctx context.Context) ([]Entity, error) {
	ctx, span := tracer.Start(ctx, "client:GetAll")
	defer span.End()

	var out []Entity
	err := c.get(ctx, "all/", nil, &out)
	if err != nil {
		span.SetStatus(codes.Error, "failed to get entities")
		return nil, fmt.Errorf("get all %s: %w", c.unit, err)
	}
	return out, nil
}

// GetOne returns a single entity by its internal id.
func (c *Client) GetOne(ctx context.Context, id string) (Entity, error) {
	ctx, span := tracer.Start(ctx, "client:GetOne")
	defer span.End()
	span.SetAttributes(attribute.String("id", id))

	var out Entity
	err := c.get(ctx, fmt.Sprintf("all/%s/", url.PathEscape(id)), nil, &out)
	if err != nil {
		span.SetStatus(codes.Error, "failed to get entity")
		return Entity{}, fmt.Errorf("get %s %s: %w", c.unit, id, err)
	}
	return out, nil
}

type SearchParams struct {
	// matched against names, first names, account handles and wikipedia titles
	NamesContain string
	Id           string
}

// Search returns the entities matching NamesContain, or if it is empty, the
// single entity with the given Id. Passing neither is an error.
func (c *Client) Search(ctx context.Context, params SearchParams) ([]Entity, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	switch {
	case params.NamesContain != "":
		span.SetAttributes(attribute.String("names_contain", params.NamesContain))

		var out []Entity
		err := c.get(ctx, "all/search/", url.Values{
			"names_contain": {params.NamesContain},
		}, &out)
		if err != nil {
			span.SetStatus(codes.Error, "failed to search")
			return nil, fmt.Errorf("search %s: %w", c.unit, err)
		}
		return out, nil
	case params.Id != "":
		entity, err := c.GetOne(ctx, params.Id)
		if err != nil {
			return nil, err
		}
		return []Entity{entity}, nil
	default:
		span.SetStatus(codes.Error, ErrNoSearchSelector.Error())
		return nil, ErrNoSearchSelector
	}
}

func (c *Client) activity(ctx context.Context, family Family, sel Selector, q Query, out any) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("client:%s", family.Name))
	defer span.End()

	endpoint := family.Endpoint(c.unit, sel)
	span.SetAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("aggregate_by", q.Aggregation()),
	)

	err := c.get(ctx, endpoint, q.Values(), out)
	if err != nil {
		span.SetStatus(codes.Error, "failed to query activity")
		return fmt.Errorf("%s: %w", family.Name, err)
	}
	return nil
}

func (c *Client) aggregated(ctx context.Context, family Family, sel Selector, q Query) (AggregatedResponse, error) {
	var out AggregatedResponse
	err := c.activity(ctx, family, sel, q, &out)
	return out, err
}

// TweetsBy returns the tweets made by the selected entities.
func (c *Client) TweetsBy(ctx context.Context, sel Selector, q Query) (AggregatedResponse, error) {
	return c.aggregated(ctx, TweetsBy, sel, q)
}

// RepliesTo returns the replies made to tweets of the selected entities.
func (c *Client) RepliesTo(ctx context.Context, sel Selector, q Query) (AggregatedResponse, error) {
	return c.aggregated(ctx, RepliesTo, sel, q)
}

// PostsBy returns the facebook posts made by the selected entities.
func (c *Client) PostsBy(ctx context.Context, sel Selector, q Query) (AggregatedResponse, error) {
	return c.aggregated(ctx, PostsBy, sel, q)
}

// CommentsBy returns the facebook comments on posts of the selected entities.
func (c *Client) CommentsBy(ctx context.Context, sel Selector, q Query) (AggregatedResponse, error) {
	return c.aggregated(ctx, CommentsBy, sel, q)
}

// Wikipedia returns the change objects of the wikipedia pages of the selected
// entities, bucketed unless q.DisableAggregation is set.
func (c *Client) Wikipedia(ctx context.Context, sel Selector, q Query) (ChobsResponse, error) {
	if q.DisableAggregation {
		var out []ChangeObject
		err := c.activity(ctx, WikipediaChobs, sel, q, &out)
		if err != nil {
			return ChobsResponse{}, err
		}
		if out == nil {
			out = []ChangeObject{}
		}
		return ChobsResponse{ChangeObjects: out}, nil
	}

	out, err := c.aggregated(ctx, WikipediaChobs, sel, q)
	if err != nil {
		return ChobsResponse{}, err
	}
	return ChobsResponse{Aggregated: &out}, nil
}

// GeneralTweets returns the tweets of the general population, or of a single
// twitter user in it if twitterUserId is not empty.
func (c *Client) GeneralTweets(ctx context.Context, twitterUserId string, q Query) (AggregatedResponse, error) {
	return c.aggregated(ctx, GeneralPopulation, SelectFirst(twitterUserId, ""), q)
}
