package dispatch

import (
	"errors"
	"strings"

	"github.com/ZapoVerde/robosmith/worker"
)

// retryableSignatures are message fragments that mark an error as retryable
// when it carries no typed classification. Workers outside this module's
// control often surface rate limiting and credential rejection as bare
// message text.
var retryableSignatures = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"quota",
	"invalid api key",
	"invalid credential",
	"unauthorized",
	"429",
	"401",
}

// Retryable classifies a worker error: true means the dispatcher should try
// the next credential, false means the failure is independent of the
// credential and must propagate immediately.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	switch {
	case errors.Is(err, worker.ErrRateLimited),
		errors.Is(err, worker.ErrQuotaExhausted),
		errors.Is(err, worker.ErrInvalidCredential):
		return true
	case errors.Is(err, worker.ErrInvalidRequest),
		errors.Is(err, worker.ErrServer):
		return false
	}

	var apiErr *worker.APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable()
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range retryableSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
