package graphql

import (
	_ "embed"
	"net/http"

	"github.com/DRSN-tech/inventory/internal/usecase"
	"github.com/DRSN-tech/inventory/pkg/logger"
	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

//go:embed schema.graphql
var schemaSDL string

const maxQueryDepth = 10

// NewSchema разбирает схему и привязывает к ней резолверы. При несоответствии схемы и резолверов паникует.
func NewSchema(prUC usecase.ProductUC, catUC usecase.CategoryUC, logger logger.Logger) *graphql.Schema {
	return graphql.MustParseSchema(
		schemaSDL,
		NewResolver(prUC, catUC, logger),
		graphql.MaxDepth(maxQueryDepth),
	)
}

// NewHandler отдаёт HTTP-обработчик POST /graphql.
func NewHandler(schema *graphql.Schema) http.Handler {
	return &relay.Handler{Schema: schema}
}
