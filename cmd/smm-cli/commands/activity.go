package commands

import (
	"context"
	"smm-wrapper/lib/smm/api"
	"smm-wrapper/lib/smm/view"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type activityFlags struct {
	platformId    string
	entityId      string
	textContains  string
	fromDate      string
	toDate        string
	aggregateBy   string
	noAggregation bool
}

func (f *activityFlags) bind(flags *pflag.FlagSet, withEntityId bool) {
	flags.StringVar(&f.platformId, "platform-id", "", "Select the entity owning this twitter user, facebook user or wikipedia page.")
	if withEntityId {
		flags.StringVar(&f.entityId, "id", "", "Select an entity by its id, ignored if --platform-id is set.")
	}
	flags.StringVar(&f.textContains, "text", "", "Only count items containing this text.")
	flags.StringVar(&f.fromDate, "from", "", "Inclusive start date, YYYY-MM-DD.")
	flags.StringVar(&f.toDate, "to", "", "Inclusive end date, YYYY-MM-DD.")
	flags.StringVar(&f.aggregateBy, "aggregate-by", api.DefaultAggregateBy, "Bucket the counts by this interval.")
	flags.BoolVar(&f.noAggregation, "no-aggregate", false, "Do not send aggregate_by.")
}

func (f *activityFlags) selector() api.Selector {
	return api.SelectFirst(f.platformId, f.entityId)
}

func (f *activityFlags) query() api.Query {
	return api.Query{
		TextContains:       f.textContains,
		FromDate:           f.fromDate,
		ToDate:             f.toDate,
		AggregateBy:        f.aggregateBy,
		DisableAggregation: f.noAggregation,
	}
}

type (
	tableFunc func(dv *view.DataView, ctx context.Context, sel api.Selector, q api.Query) (view.Table, error)
	rawFunc   func(client *api.Client, ctx context.Context, sel api.Selector, q api.Query) (any, error)
)

func rawAggregated(
	fn func(*api.Client, context.Context, api.Selector, api.Query) (api.AggregatedResponse, error),
) rawFunc {
	return func(client *api.Client, ctx context.Context, sel api.Selector, q api.Query) (any, error) {
		return fn(client, ctx, sel, q)
	}
}

func rawChobs(client *api.Client, ctx context.Context, sel api.Selector, q api.Query) (any, error) {
	res, err := client.Wikipedia(ctx, sel, q)
	if err != nil {
		return nil, err
	}
	if res.IsAggregated() {
		return res.Aggregated, nil
	}
	return res.ChangeObjects, nil
}

func newActivityCmd(use, short string, withEntityId bool, tableFn tableFunc, rawFn rawFunc) *cobra.Command {
	flags := &activityFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := flags.selector()
			q := flags.query()

			if raw {
				res, err := rawFn(client.Api, cmd.Context(), sel, q)
				if err != nil {
					return err
				}
				return writeRaw(cmd.OutOrStdout(), res)
			}

			data, err := tableFn(client.Dv, cmd.Context(), sel, q)
			if err != nil {
				return err
			}
			renderTable(cmd.OutOrStdout(), data, format)
			return nil
		},
	}
	flags.bind(cmd.Flags(), withEntityId)
	return cmd
}

func generalTable(dv *view.DataView, ctx context.Context, sel api.Selector, q api.Query) (view.Table, error) {
	return dv.GeneralTweets(ctx, sel.Id, q)
}

func generalRaw(client *api.Client, ctx context.Context, sel api.Selector, q api.Query) (any, error) {
	return client.GeneralTweets(ctx, sel.Id, q)
}

func init() {
	rootCmd.AddCommand(
		newActivityCmd(
			"tweets", "Counts the tweets made by the selected entities.", true,
			(*view.DataView).TweetsBy, rawAggregated((*api.Client).TweetsBy),
		),
		newActivityCmd(
			"replies", "Counts the replies to tweets of the selected entities.", true,
			(*view.DataView).RepliesTo, rawAggregated((*api.Client).RepliesTo),
		),
		newActivityCmd(
			"posts", "Counts the facebook posts made by the selected entities.", true,
			(*view.DataView).PostsBy, rawAggregated((*api.Client).PostsBy),
		),
		newActivityCmd(
			"comments", "Counts the facebook comments on posts of the selected entities.", true,
			(*view.DataView).CommentsBy, rawAggregated((*api.Client).CommentsBy),
		),
		newActivityCmd(
			"wikipedia", "Counts or lists the wikipedia change objects of the selected entities.", true,
			(*view.DataView).Wikipedia, rawChobs,
		),
		newActivityCmd(
			"general", "Counts the tweets of the general population, or of one twitter user in it.", false,
			generalTable, generalRaw,
		),
	)
}
