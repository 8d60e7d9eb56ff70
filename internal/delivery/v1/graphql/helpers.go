package graphql

import (
	"errors"
	"fmt"
	"math"

	"github.com/DRSN-tech/inventory/pkg/e"
)

// resolverError отдаёт клиенту только сообщение; код и детали уходят в extensions.
type resolverError struct {
	*e.APIError
}

func (r resolverError) Error() string {
	return r.Message
}

// GraphQLErrorResponse превращает ошибку usecase в ошибку ответа.
// Всё, что не APIError, скрывается за INTERNAL_SERVER_ERROR.
func GraphQLErrorResponse(err error) error {
	return resolverError{APIError: e.AsAPIError(err)}
}

func toInt64s(ids []int32) []int64 {
	if ids == nil {
		return nil
	}

	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}

	return out
}

// errIntOverflow: значение не помещается в 32-битный GraphQL Int.
var errIntOverflow = errors.New("value exceeds GraphQL Int range")

func toInt32(v int64) (int32, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%w: %d", errIntOverflow, v)
	}

	return int32(v), nil
}
