// Package graphql exposes a read-only GraphQL view of the rerelease leaderboard.
package graphql

import (
	"context"
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/handler"

	"github.com/gamevault/gamevault-api/internal/domain"
	"github.com/gamevault/gamevault-api/internal/service"
)

type RereleaseReader interface {
	ListMostVoted(ctx context.Context, limit, offset int) ([]domain.RereleaseRequest, error)
	GetRequest(ctx context.Context, gameID uint) (domain.RereleaseRequest, error)
}

var requestType = graphql.NewObject(
	graphql.ObjectConfig{
		Name: "RereleaseRequest",
		Fields: graphql.Fields{
			"rank":          &graphql.Field{Type: graphql.Int},
			"requestId":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"gameId":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"gameTitle":     &graphql.Field{Type: graphql.String},
			"totalVotes":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"status":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"fulfilledDate": &graphql.Field{Type: graphql.DateTime},
		},
	},
)

func NewSchema(svc RereleaseReader) (graphql.Schema, error) {
	queryType := graphql.NewObject(
		graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"mostVoted": &graphql.Field{
					Type: graphql.NewList(requestType),
					Args: graphql.FieldConfigArgument{
						"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
						"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						limit, _ := p.Args["limit"].(int)
						offset, _ := p.Args["offset"].(int)

						reqs, err := svc.ListMostVoted(p.Context, limit, offset)
						if err != nil {
							return nil, err
						}

						out := make([]map[string]interface{}, len(reqs))
						for i, r := range reqs {
							out[i] = toMap(r)
							out[i]["rank"] = offset + i + 1
						}

						return out, nil
					},
				},
				"rereleaseRequest": &graphql.Field{
					Type: requestType,
					Args: graphql.FieldConfigArgument{
						"gameId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					},
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						gameID, _ := p.Args["gameId"].(int)
						if gameID <= 0 {
							return nil, nil
						}

						req, err := svc.GetRequest(p.Context, uint(gameID))
						if errors.Is(err, service.ErrRequestNotFound) {
							return nil, nil
						}
						if err != nil {
							return nil, err
						}

						return toMap(req), nil
					},
				},
			},
		},
	)

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

func NewHandler(schema *graphql.Schema) http.Handler {
	return handler.New(&handler.Config{
		Schema: schema,
		Pretty: false,
	})
}

func toMap(r domain.RereleaseRequest) map[string]interface{} {
	var fulfilled interface{}
	if r.FulfilledDate != nil {
		fulfilled = r.FulfilledDate.UTC()
	}

	return map[string]interface{}{
		"requestId":     int(r.ID),
		"gameId":        int(r.GameID),
		"gameTitle":     r.GameTitle,
		"totalVotes":    r.TotalVotes,
		"status":        string(r.Status),
		"fulfilledDate": fulfilled,
	}
}
