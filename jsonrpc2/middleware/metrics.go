package middleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vipnode/rpcserver/jsonrpc2"
)

const (
	opSingle = "single"
	opBatch  = "batch"
)

// Metrics records prometheus metrics for every send:
//
//   <namespace>_sends_total{op,result}     sends by op (single|batch) and result (ok|error)
//   <namespace>_responses_sent_total        responses delivered, counting each batch member
//   <namespace>_send_duration_seconds{op}   send latency
//
// Collectors that are already registered with reg are reused, so several
// transports can report into the same namespace.
func Metrics(reg prometheus.Registerer, namespace string) (jsonrpc2.Middleware, error) {
	m := &metrics{
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sends_total",
			Help:      "Number of sends by operation and result.",
		}, []string{"op", "result"}),
		responses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_sent_total",
			Help:      "Number of responses delivered.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "send_duration_seconds",
			Help:      "Time spent sending, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
	}

	var err error
	if m.sends, err = register(reg, m.sends); err != nil {
		return nil, err
	}
	if m.responses, err = register(reg, m.responses); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}

	return func(next jsonrpc2.Transport) jsonrpc2.Transport {
		return &metricsTransport{Transport: next, m: m}
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

type metrics struct {
	sends     *prometheus.CounterVec
	responses prometheus.Counter
	duration  *prometheus.HistogramVec
}

func (m *metrics) observe(op string, start time.Time, n int, err error) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.sends.WithLabelValues(op, "error").Inc()
		return
	}
	m.sends.WithLabelValues(op, "ok").Inc()
	m.responses.Add(float64(n))
}

type metricsTransport struct {
	jsonrpc2.Transport
	m *metrics
}

func (t *metricsTransport) SendResponse(resp *jsonrpc2.Response) (*jsonrpc2.Response, error) {
	start := time.Now()
	r, err := t.Transport.SendResponse(resp)
	t.m.observe(opSingle, start, 1, err)
	return r, err
}

func (t *metricsTransport) SendBatch(resps []*jsonrpc2.Response) ([]*jsonrpc2.Response, error) {
	start := time.Now()
	r, err := t.Transport.SendBatch(resps)
	t.m.observe(opBatch, start, len(resps), err)
	return r, err
}
