package resource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Veraticus/gastos/internal/common"
	"github.com/Veraticus/gastos/internal/gateway"
	"github.com/Veraticus/gastos/internal/service"
)

// checkStatus turns a non-2xx response into an error. A 401 expires the
// session before returning.
func checkStatus(ctx context.Context, expirer service.SessionExpirer, resp *gateway.Response, op string) error {
	switch {
	case resp.OK():
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		expirer.Expire(ctx)
		return fmt.Errorf("%s: %w", op, common.ErrSessionExpired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w: %w", op, common.ErrNotFound, statusError(resp))
	default:
		return fmt.Errorf("%s: %w", op, statusError(resp))
	}
}

func statusError(resp *gateway.Response) *common.StatusError {
	return &common.StatusError{StatusCode: resp.StatusCode, Body: resp.Detail()}
}
