package metrics_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/modelkit/field"
	"github.com/reoring/modelkit/metrics"
	"github.com/reoring/modelkit/model"
)

func TestCollector_CountsOutcomesAndFields(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewWithRegistry(reg)
	ctx := model.WithObserver(context.Background(), c)

	s := model.New("Order").
		Field("id", field.Int(field.NumberConfig[int]{Spec: field.Spec{Required: true}})).
		Field("tags", field.List(field.Int())).
		MustBuild()

	_, err := s.Validate(ctx, map[string]any{"id": 1})
	require.NoError(t, err)
	_, err = s.Validate(ctx, map[string]any{"tags": []any{1, "x"}})
	require.Error(t, err)
	_, err = s.Validate(ctx, map[string]any{})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.ValidationsTotal.WithLabelValues("Order", metrics.OutcomeValid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ValidationsTotal.WithLabelValues("Order", metrics.OutcomeInvalid)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.FieldErrorsTotal.WithLabelValues("Order", "id")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.FieldErrorsTotal.WithLabelValues("Order", "tags")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.FieldErrorsTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(c.ValidationDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["modelkit_validations_total"])
	assert.True(t, names["modelkit_validation_duration_seconds"])
}

func TestCollector_FieldLabelsStayBounded(t *testing.T) {
	c := metrics.NewWithRegistry(prometheus.NewRegistry())
	ctx := model.WithObserver(context.Background(), c)

	s := model.New("Event").
		Field("kind", field.String(field.StringConfig{Spec: field.Spec{SerializedName: "type"}, MaxLength: field.Ptr(3)})).
		Field("data", field.Dict(field.Int())).
		MustBuild()

	for i := 0; i < 200; i++ {
		key := "junk" + strconv.Itoa(i)
		_, err := s.Validate(ctx, map[string]any{
			"type": "toolong",
			"data": map[string]any{key: "x"},
			key:    1,
		}, model.ValidateOpt{Strict: true})
		require.Error(t, err)
	}

	assert.Equal(t, 3, testutil.CollectAndCount(c.FieldErrorsTotal))
	assert.Equal(t, 200.0, testutil.ToFloat64(c.FieldErrorsTotal.WithLabelValues("Event", "kind")))
	assert.Equal(t, 200.0, testutil.ToFloat64(c.FieldErrorsTotal.WithLabelValues("Event", "data")))
	assert.Equal(t, 200.0, testutil.ToFloat64(c.FieldErrorsTotal.WithLabelValues("Event", metrics.IllegalField)))
}
