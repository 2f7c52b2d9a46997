package ai

import (
	"context"
	"errors"
	"net/http"

	"sailsmart/utils"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
)

// classify maps a provider failure onto the API error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return utils.UpstreamTimeout("AI provider timed out", err)
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if st := apiErr.GRPCStatus(); st != nil {
			switch st.Code() {
			case codes.ResourceExhausted:
				return utils.RateLimited("AI provider quota exhausted", err)
			case codes.DeadlineExceeded:
				return utils.UpstreamTimeout("AI provider timed out", err)
			}
		}
		switch apiErr.HTTPCode() {
		case http.StatusTooManyRequests:
			return utils.RateLimited("AI provider quota exhausted", err)
		case http.StatusGatewayTimeout:
			return utils.UpstreamTimeout("AI provider timed out", err)
		}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusTooManyRequests {
		return utils.RateLimited("AI provider quota exhausted", err)
	}

	return utils.UpstreamUnavailable("AI provider unavailable", err)
}
