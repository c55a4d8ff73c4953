package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestMetricsExportsBusinessCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncOrderCreated("cod")
	m.IncOrderCreated("cod")
	m.IncStockReservationFailure("")
	m.IncCouponRedemption("percent")
	m.IncOrderTransition("pending", "delivered")
	m.ObserveHTTP("POST", "/api/v1/orders", 201, 40*time.Millisecond)
	m.ObserveJob("membership_refresh", time.Second, errors.New("boom"))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	checks := []struct {
		name  string
		label string
		value string
		want  float64
	}{
		{name: "orders_created_total", label: "payment_method", value: "cod", want: 2},
		{name: "stock_reservation_failures_total", label: "reason", value: "unknown", want: 1},
		{name: "coupon_redemptions_total", label: "discount_type", value: "percent", want: 1},
		{name: "order_transitions_total", label: "to", value: "delivered", want: 1},
		{name: "http_requests_total", label: "status", value: "201", want: 1},
		{name: "job_failure", label: "job", value: "membership_refresh", want: 1},
	}
	for _, check := range checks {
		got, err := fetchCounterValue(mfs, check.name, check.label, check.value)
		if err != nil {
			t.Fatalf("fetch %s: %v", check.name, err)
		}
		if got != check.want {
			t.Fatalf("%s want %v got %v", check.name, check.want, got)
		}
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.IncOrderCreated("cod")
	m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	New(nil).IncOrderTransition("a", "b")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
		return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
