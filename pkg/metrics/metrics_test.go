package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCollectors(t *testing.T) {
	GenerationsTotal.WithLabelValues(OutcomeSuccess).Inc()
	SetEntities(5, 20, 19, 300)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`realmmap_generations_total{outcome="success"}`,
		`realmmap_entities{kind="roads"} 19`,
		`realmmap_entities{kind="forest_points"} 300`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
