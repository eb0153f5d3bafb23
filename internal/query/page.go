package query

import (
	"context"
	"strconv"
)

// Pagination defaults. Non-numeric or out-of-range requests clamp to these
// rather than erroring.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageRequest is a 1-based page selection.
type PageRequest struct {
	Page  int
	Limit int
}

// ParsePageRequest builds a PageRequest from raw query-string values.
// A missing, non-numeric, or non-positive value falls back to the default;
// the limit is capped at MaxLimit. Parsing never fails.
func ParsePageRequest(page, limit string) PageRequest {
	req := PageRequest{Page: DefaultPage, Limit: DefaultLimit}
	if n, err := strconv.Atoi(page); err == nil && n > 0 {
		req.Page = n
	}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		req.Limit = n
		if req.Limit > MaxLimit {
			req.Limit = MaxLimit
		}
	}
	return req
}

// Skip returns the number of documents to drop before the page.
func (r PageRequest) Skip() int {
	return (r.Page - 1) * r.Limit
}

// Page is one page of pipeline results with totals computed over the full
// matched set.
type Page struct {
	Docs       []Document `json:"docs"`
	TotalDocs  int        `json:"totalDocs"`
	Limit      int        `json:"limit"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// Paginate runs the pipeline (which must not itself contain Skip or Limit),
// counts the full result set, then slices out the requested page. An
// out-of-range page yields an empty page, not an error.
func (e *Engine) Paginate(ctx context.Context, collection string, p Pipeline, req PageRequest) (*Page, error) {
	docs, err := e.Run(ctx, collection, p)
	if err != nil {
		return nil, err
	}

	total := len(docs)
	totalPages := total / req.Limit
	if total%req.Limit != 0 {
		totalPages++
	}

	start := req.Skip()
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	page := docs[start:end]
	if page == nil {
		page = []Document{}
	}

	return &Page{
		Docs:       page,
		TotalDocs:  total,
		Limit:      req.Limit,
		Page:       req.Page,
		TotalPages: totalPages,
	}, nil
}
