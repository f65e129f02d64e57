package api

import (
	"net/url"
)

const DefaultAggregateBy = "month"

// Query holds the optional filters shared by every activity endpoint, empty
// fields are not sent.
type Query struct {
	// only count items whose text contains this substring
	TextContains string
	// inclusive bounds, formatted as YYYY-MM-DD
	FromDate string
	ToDate   string
	// bucketing granularity, empty means DefaultAggregateBy
	AggregateBy string
	// omits aggregate_by entirely, which makes wikipedia return individual
	// change objects instead of buckets
	DisableAggregation bool
}

// Aggregation returns the aggregate_by value that will be sent, or "" if
// aggregation is disabled.
func (q Query) Aggregation() string {
	if q.DisableAggregation {
		return ""
	}
	if q.AggregateBy == "" {
		return DefaultAggregateBy
	}
	return q.AggregateBy
}

func (q Query) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("text_contains", q.TextContains)
	set("from_date", q.FromDate)
	set("to_date", q.ToDate)
	set("aggregate_by", q.Aggregation())
	return values
}

type SelectorKind int

const (
	SelectAll SelectorKind = iota
	SelectPlatformId
	SelectEntityId
)

// Selector decides which entities an activity query covers: all of them, the
// one owning a platform account (twitter user, facebook user, wikipedia
// page), or one by its internal id.
type Selector struct {
	Kind SelectorKind
	Id   string
}

func All() Selector {
	return Selector{Kind: SelectAll}
}

func ByPlatformId(id string) Selector {
	return Selector{Kind: SelectPlatformId, Id: id}
}

func ByEntityId(id string) Selector {
	return Selector{Kind: SelectEntityId, Id: id}
}

// SelectFirst picks the first non-empty identifier, platform id before entity
// id, and falls back to All.
func SelectFirst(platformId, entityId string) Selector {
	switch {
	case platformId != "":
		return ByPlatformId(platformId)
	case entityId != "":
		return ByEntityId(entityId)
	default:
		return All()
	}
}

// Family is a group of activity endpoints sharing a path prefix.
type Family struct {
	Name string
	// name of the platform id, used when echoing a query back
	PlatformIdName string

	path            string
	platformSegment string
	unitScoped      bool
}

var (
	TweetsBy = Family{
		Name:            "tweets_by",
		PlatformIdName:  "twitter_user_id",
		path:            "twitter/tweets_by",
		platformSegment: "user_id",
		unitScoped:      true,
	}
	RepliesTo = Family{
		Name:            "replies_to",
		PlatformIdName:  "twitter_user_id",
		path:            "twitter/replies_to",
		platformSegment: "user_id",
		unitScoped:      true,
	}
	PostsBy = Family{
		Name:            "posts_by",
		PlatformIdName:  "facebook_user_id",
		path:            "facebook/posts_by",
		platformSegment: "user_id",
		unitScoped:      true,
	}
	CommentsBy = Family{
		Name:            "comments_by",
		PlatformIdName:  "facebook_user_id",
		path:            "facebook/comments_by",
		platformSegment: "user_id",
		unitScoped:      true,
	}
	WikipediaChobs = Family{
		Name:            "chobs",
		PlatformIdName:  "wikipedia_page_id",
		path:            "wikipedia/chobs",
		platformSegment: "page_id",
		unitScoped:      true,
	}
	GeneralPopulation = Family{
		Name:            "general_population",
		PlatformIdName:  "twitter_user_id",
		path:            "twitter/general_population",
		platformSegment: "user_id",
	}
)

// Endpoint returns the path of the family relative to the unit base url.
func (f Family) Endpoint(unit string, sel Selector) string {
	prefix := f.path + "/"
	if f.unitScoped {
		prefix += unit + "/"
	}

	switch sel.Kind {
	case SelectPlatformId:
		return prefix + f.platformSegment + "/" + url.PathEscape(sel.Id) + "/"
	case SelectEntityId:
		return prefix + url.PathEscape(sel.Id) + "/"
	default:
		return prefix
	}
}
