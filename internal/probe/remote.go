package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/mozilla-ai/mcpcheck/internal/config"
	"github.com/mozilla-ai/mcpcheck/internal/domain"
)

const acceptEventStream = "text/event-stream"

func (p *Prober) probeRemote(ctx context.Context, entry config.ServerEntry) Result {
	res := Result{Target: entry.ServerURL}

	ctx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.env.Expand(entry.ServerURL), nil)
	if err != nil {
		res.Status = domain.ProbeStatusError
		res.Message = fmt.Sprintf("invalid request: %v", err)
		return res
	}

	for k, v := range entry.Headers {
		req.Header.Set(k, p.env.Expand(v))
	}
	req.Header.Set("Accept", acceptEventStream)
	req.Header.Set("User-Agent", p.opts.UserAgent)

	resp, err := p.opts.HTTPClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			res.Status = domain.ProbeStatusTimeout
			res.Message = "timeout"
			return res
		}
		res.Status = domain.ProbeStatusError
		res.Message = err.Error()
		return res
	}
	// An event stream never ends on its own, the body is closed without being read.
	defer func() { _ = resp.Body.Close() }()

	res.HTTPStatus = resp.StatusCode
	res.Message = fmt.Sprintf("HTTP %s", resp.Status)

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusBadRequest {
		res.Success = true
		res.Status = domain.ProbeStatusOK
		return res
	}

	res.Status = domain.ProbeStatusError
	return res
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
