package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonwraymond/nrcc-search/auth"
	"github.com/jonwraymond/nrcc-search/nrcc"
	"github.com/jonwraymond/nrcc-search/observe"
	"github.com/jonwraymond/nrcc-search/tool"
)

// Argument names accepted by the tools.
const (
	ArgChemName    = "chemName"
	ArgChemCas     = "chemCas"
	ArgChemID      = "chemId"
	ArgChemIDAlias = "chem_id"
)

// ErrMissingArgument is returned when a required argument is absent.
var ErrMissingArgument = errors.New("missing required argument")

// Searcher is the upstream database.
type Searcher interface {
	SearchList(ctx context.Context, name, cas string) (nrcc.Document, error)
	SearchDetail(ctx context.Context, id string) (nrcc.Document, error)
}

// Operations implements the two business operations. Upstream failures are
// reported as a "no results" text, not as errors.
type Operations struct {
	searcher Searcher
	logger   observe.Logger
}

// NewOperations creates Operations backed by s.
func NewOperations(s Searcher, logger observe.Logger) *Operations {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Operations{searcher: s, logger: logger}
}

// ChemicalsList searches by chemName and chemCas.
func (o *Operations) ChemicalsList(ctx context.Context, args tool.Args) (string, error) {
	name, cas := args.String(ArgChemName), args.String(ArgChemCas)

	doc, err := o.searcher.SearchList(ctx, name, cas)
	if errors.Is(err, nrcc.ErrNoData) {
		o.logger.Warn(ctx, "chemicals list unavailable", observe.F("chem_name", name), observe.F("error", err.Error()))
		return nrcc.NoResults, nil
	}
	if err != nil {
		return "", err
	}

	o.logger.Info(ctx, "chemicals list search completed",
		observe.F("chem_name", name),
		observe.F("chem_cas", cas),
		observe.F("principal", auth.PrincipalFromContext(ctx)),
	)
	return nrcc.FormatList(doc), nil
}

// ChemicalDetail looks up one record by chemId (or chem_id).
func (o *Operations) ChemicalDetail(ctx context.Context, args tool.Args) (string, error) {
	id := args.String(ArgChemID)
	if id == "" {
		id = args.String(ArgChemIDAlias)
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingArgument, ArgChemID)
	}

	doc, err := o.searcher.SearchDetail(ctx, id)
	if errors.Is(err, nrcc.ErrNoData) {
		o.logger.Warn(ctx, "chemical detail unavailable", observe.F("chem_id", id), observe.F("error", err.Error()))
		return nrcc.NoDetails, nil
	}
	if err != nil {
		return "", err
	}

	o.logger.Info(ctx, "chemical detail retrieved",
		observe.F("chem_id", id),
		observe.F("principal", auth.PrincipalFromContext(ctx)),
	)
	return nrcc.FormatDetail(doc), nil
}
