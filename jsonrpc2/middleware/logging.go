package middleware

import (
	"time"

	"github.com/vipnode/rpcserver/jsonrpc2"
)

// Logger is the subset of *golog.Logger used by Logging.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}

// Logging logs every send. Successful sends are logged at debug level and
// failures at warning level. Errors are returned unchanged.
func Logging(logger Logger) jsonrpc2.Middleware {
	return func(next jsonrpc2.Transport) jsonrpc2.Transport {
		return &logging{Transport: next, logger: logger}
	}
}

type logging struct {
	jsonrpc2.Transport
	logger Logger
}

func (t *logging) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	start := time.Now()
	r, err := t.Transport.SendResponse(resp)
	if err != nil {
		t.logger.Warningf("SendResponse(id=%s) to %s failed: %s", resp.ID, jsonrpc2.Endpoint(t), err)
		return r, err
	}
	t.logger.Debugf("SendResponse(id=%s) to %s in %s", resp.ID, jsonrpc2.Endpoint(t), time.Since(start))
	return r, nil
}

func (t *logging) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	start := time.Now()
	r, err := t.Transport.SendBatch(resps)
	if err != nil {
		t.logger.Warningf("SendBatch(len=%d) to %s failed: %s", len(resps), jsonrpc2.Endpoint(t), err)
		return r, err
	}
	t.logger.Debugf("SendBatch(len=%d) to %s in %s", len(resps), jsonrpc2.Endpoint(t), time.Since(start))
	return r, nil
}
