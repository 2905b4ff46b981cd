package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/guilhermemouraovc/cm-admin/internal/model"
)

// Metrics returns the dashboard counters
func (c *Client) Metrics(ctx context.Context) (model.Metrics, error) {
	var m model.Metrics
	err := c.Do(ctx, http.MethodGet, "/dashboard/metrics", nil, &m)
	return m, err
}

// TopStudents returns the best averages, highest first
func (c *Client) TopStudents(ctx context.Context, limit int) ([]model.TopStudent, error) {
	var out []model.TopStudent
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/dashboard/top-students?limit=%d", limit), nil, &out)
	return out, err
}

// AbsencesByClass returns absence counts per class
func (c *Client) AbsencesByClass(ctx context.Context) ([]model.ClassAbsences, error) {
	var out []model.ClassAbsences
	err := c.Do(ctx, http.MethodGet, "/dashboard/absences-by-class", nil, &out)
	return out, err
}

// DeliveredUniforms returns the most recent uniform deliveries
func (c *Client) DeliveredUniforms(ctx context.Context, limit int) ([]model.DeliveredUniform, error) {
	var out []model.DeliveredUniform
	err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/dashboard/delivered-uniforms?limit=%d", limit), nil, &out)
	return out, err
}
