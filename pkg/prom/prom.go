package prom

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shubamdev/enquiry-gateway/pkg/logger"
	"github.com/shubamdev/enquiry-gateway/pkg/xhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const SystemEnquiries = "enquiry"
const SystemViews = "view"

const (
	MetricCreatedTotal         = "created_total"
	MetricEmailTotal           = "email_total"
	MetricEventsPublishedTotal = "events_published_total"
	MetricImportRowsTotal      = "import_rows_total"
	MetricHitsTotal            = "hits_total"
)

var (
	createLock sync.Mutex
	namespace  = "none"
	Enabled    = false

	counters    = make(map[string]prometheus.Counter)
	counterVecs = make(map[string]*prometheus.CounterVec)

	defaultLabels prometheus.Labels
)

// Create registers every metric the service emits. Call once at startup;
// metric helpers are no-ops until then.
func Create(env, nameSpace string) error {
	defaultLabels = prometheus.Labels{"env": env}
	namespace = nameSpace
	Enabled = true

	var err error
	hasError := func(e error) {
		if err == nil && e != nil {
			err = e
		}
	}

	hasError(createCounter(SystemEnquiries, MetricCreatedTotal))
	hasError(createCounterVec(SystemEnquiries, MetricEmailTotal, []string{"outcome"}))
	hasError(createCounter(SystemEnquiries, MetricEventsPublishedTotal))
	hasError(createCounterVec(SystemEnquiries, MetricImportRowsTotal, []string{"result"}))
	hasError(createCounterVec(SystemViews, MetricHitsTotal, []string{"kind"}))

	return err
}

func createCounter(subsystem, name string) error {
	createLock.Lock()
	defer createLock.Unlock()

	key := subsystem + "_" + name
	if _, ok := counters[key]; ok {
		return fmt.Errorf("counter %s already registered", key)
	}
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	})
	if err := prometheus.Register(c); err != nil {
		return err
	}
	counters[key] = c
	return nil
}

func createCounterVec(subsystem, name string, labels []string) error {
	createLock.Lock()
	defer createLock.Unlock()

	key := subsystem + "_" + name
	if _, ok := counterVecs[key]; ok {
		return fmt.Errorf("counter vec %s already registered", key)
	}
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        name,
		ConstLabels: defaultLabels,
	}, labels)
	if err := prometheus.Register(c); err != nil {
		return err
	}
	counterVecs[key] = c
	return nil
}

func IncCounter(subsystem, name string) {
	if !Enabled {
		return
	}
	if c, ok := counters[subsystem+"_"+name]; ok {
		c.Inc()
	}
}

func IncCounterVec(subsystem, name string, labelValues ...string) {
	if !Enabled {
		return
	}
	if c, ok := counterVecs[subsystem+"_"+name]; ok {
		c.WithLabelValues(labelValues...).Inc()
	}
}

// ListenAndServe exposes the prometheus handler on its own listener so
// scrapes never contend with the public API.
func ListenAndServe(addr, uri string) {
	hh := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	s := xhttp.CreateServer()
	if uri == "" {
		uri = "/metrics"
	}
	s.Router.GET(uri, hh)
	go func() {
		if err := s.ListenAndServe(addr); err != nil {
			logger.Error("[prom] metrics listener stopped", "error", err)
		}
	}()
}
