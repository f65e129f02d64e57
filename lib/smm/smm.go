// Package smm connects to the social media monitoring service and exposes it
// both as raw responses (Api) and as tables (Dv).
package smm

import (
	"smm-wrapper/lib/smm/api"
	"smm-wrapper/lib/smm/core"
	"smm-wrapper/lib/smm/view"
	"smm-wrapper/lib/telemetry"
)

type Options struct {
	core.ClientOptions
	// overrides the id column echoed into activity tables
	IdColumn string
	// defaults to telemetry.SlogAPI
	Telemetry telemetry.API
}

type SMM struct {
	Api *api.Client
	Dv  *view.DataView
}

// New creates a client for opts.Unit, unset options take the defaults of
// package core.
func New(opts Options) (SMM, error) {
	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.SlogAPI{}
	}

	coreClient, err := core.NewClient(opts.ClientOptions, tel)
	if err != nil {
		return SMM{}, err
	}
	client := api.NewClient(coreClient, api.ClientOptions{
		IdColumn: opts.IdColumn,
	})
	return SMM{
		Api: client,
		Dv:  view.NewDataView(client, tel),
	}, nil
}

func NewPoliticians(opts Options) (SMM, error) {
	opts.Unit = api.UnitPoliticians
	return New(opts)
}

func NewOrganizations(opts Options) (SMM, error) {
	opts.Unit = api.UnitOrganizations
	return New(opts)
}
