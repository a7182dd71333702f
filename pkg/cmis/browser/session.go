package browser

import (
	"context"
	"iter"
	"net/url"
	"strconv"

	"github.com/architeacher/docrepo/pkg/cmis"
)

// Query pages through the result set of statement on demand, requesting
// opCtx.MaxItemsPerPage rows per round trip.
func (c *Client) Query(
	ctx context.Context,
	statement string,
	searchAllVersions bool,
	opCtx cmis.OperationContext,
) iter.Seq2[*cmis.Record, error] {
	batch := opCtx.MaxItemsPerPage
	if batch <= 0 {
		batch = c.cfg.MaxItemsPerPage
	}

	return func(yield func(*cmis.Record, error) bool) {
		for skip := 0; ; {
			params := url.Values{
				paramSelector:             {selectorQuery},
				"q":                       {statement},
				"searchAllVersions":       {strconv.FormatBool(searchAllVersions)},
				"includeAllowableActions": {strconv.FormatBool(opCtx.IncludeAllowableActions)},
				paramMaxItems:             {strconv.Itoa(batch)},
				paramSkipCount:            {strconv.Itoa(skip)},
				paramSuccinct:             {"false"},
			}

			var result wireQueryResult
			if err := c.getJSON(ctx, c.repositoryURL, params, &result); err != nil {
				yield(nil, err)

				return
			}

			for _, object := range result.Results {
				if !yield(object.record(), nil) {
					return
				}
			}

			skip += len(result.Results)

			if !result.HasMoreItems || len(result.Results) == 0 {
				return
			}
		}
	}
}
