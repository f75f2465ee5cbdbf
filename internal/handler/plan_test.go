package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magsub/subscription-api/internal/model"
)

func TestPlanCreateValidation(t *testing.T) {
	h := NewPlanHandler(newMemPlanStore())

	cases := []struct {
		name string
		req  planReq
		want int
	}{
		{"valid", planReq{Title: "Monthly", RenewalPeriod: 1, Tier: 1, Discount: 0}, http.StatusCreated},
		{"blank title", planReq{Title: " ", RenewalPeriod: 1}, http.StatusBadRequest},
		{"zero renewal period", planReq{Title: "X", RenewalPeriod: 0}, http.StatusBadRequest},
		{"discount of one", planReq{Title: "X", RenewalPeriod: 1, Discount: 1}, http.StatusBadRequest},
		{"negative discount", planReq{Title: "X", RenewalPeriod: 1, Discount: -0.1}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, http.MethodPost, "/plans/", tc.req, nil, h.Create)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestPlanUpdateAndGet(t *testing.T) {
	h := NewPlanHandler(newMemPlanStore())

	rec := doJSON(t, http.MethodPost, "/plans/",
		planReq{Title: "Annual", Description: "12 issues", RenewalPeriod: 12, Tier: 2, Discount: 0.25}, nil, h.Create)
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		rec := doJSON(t, http.MethodPut, "/plans/1",
			map[string]any{"discount": 0.3}, withParam("id", "1"), h.Update)
		require.Equal(t, http.StatusOK, rec.Code)
		var p model.Plan
		decodeBody(t, rec, &p)
		assert.Equal(t, 0.3, p.Discount)
		assert.Equal(t, "Annual", p.Title)
		assert.Equal(t, 12, p.RenewalPeriod)
	})

	t.Run("update rejects out-of-range discount", func(t *testing.T) {
		rec := doJSON(t, http.MethodPut, "/plans/1",
			map[string]any{"discount": 1.5}, withParam("id", "1"), h.Update)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing plan is a 404", func(t *testing.T) {
		rec := doJSON(t, http.MethodGet, "/plans/7", nil, withParam("id", "7"), h.Get)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
