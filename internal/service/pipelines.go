package service

import (
	"io"

	"github.com/cliptube/cliptube/internal/query"
)

// Upload is an incoming file from a multipart request, streamed to the blob
// store without buffering the whole body.
type Upload struct {
	Reader      io.Reader
	ContentType string
}

// ownerLookup joins the owning user onto each document under field,
// projecting only the public profile subset, and reduces the join to a
// single document.
func ownerLookup(localField, as string) []query.Stage {
	return []query.Stage{
		query.Lookup{
			From:         "users",
			LocalField:   localField,
			ForeignField: "id",
			As:           as,
			Pipeline: query.Pipeline{
				query.Project{"fullName", "userName", "avatar"},
			},
		},
		query.AddFields{as: query.First{Field: as}},
	}
}

// matchID selects the single document with the given id.
func matchID(id string) query.Match {
	return query.Match{All: []query.Cond{{Field: "id", Op: query.OpEq, Value: id}}}
}
