package doctor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCheck returns a fixed status and counts its runs.
type fakeCheck struct {
	name   string
	status Severity
	runs   int
	cancel context.CancelFunc
}

func (f *fakeCheck) Name() string     { return f.name }
func (f *fakeCheck) Category() string { return "test" }

func (f *fakeCheck) Run(_ context.Context) *CheckResult {
	f.runs++
	if f.cancel != nil {
		f.cancel()
	}
	return &CheckResult{Status: f.status, Message: f.name + " ran"}
}

func TestNewRunner(t *testing.T) {
	assert.Empty(t, NewRunner().checks)
	assert.Len(t, NewRunner(&fakeCheck{}, &fakeCheck{}).checks, 2)
}

func TestRunner_AddCheck(t *testing.T) {
	r := NewRunner()
	names := []string{"first", "second", "third"}
	for _, name := range names {
		r.AddCheck(&fakeCheck{name: name})
	}

	for i, want := range names {
		assert.Equal(t, want, r.checks[i].Name())
	}
}

func TestRunner_Run(t *testing.T) {
	checks := []*fakeCheck{
		{name: "pass", status: SeverityPass},
		{name: "info", status: SeverityInfo},
		{name: "warn", status: SeverityWarning},
		{name: "error", status: SeverityError},
		{name: "error-2", status: SeverityError},
	}
	r := NewRunner()
	for _, c := range checks {
		r.AddCheck(c)
	}

	report := r.Run(context.Background())

	require.Len(t, report.Results, len(checks))
	assert.Equal(t, Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 2}, report.Summary)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
	assert.False(t, report.Timestamp.IsZero())

	// Name and category are filled in from the check.
	assert.Equal(t, "warn", report.Results[2].Name)
	assert.Equal(t, "test", report.Results[2].Category)
}

func TestRunner_RunEmpty(t *testing.T) {
	report := NewRunner().Run(context.Background())
	assert.Empty(t, report.Results)
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

func TestRunner_RunStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first := &fakeCheck{name: "first", cancel: cancel}
	second := &fakeCheck{name: "second"}
	report := NewRunner(first, second).Run(ctx)

	assert.Len(t, report.Results, 1)
	assert.Equal(t, 0, second.runs)
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityPass, "pass"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}

func TestCheckResult_JSON(t *testing.T) {
	data, err := json.Marshal(&CheckResult{Name: "config", Category: "config", Status: SeverityWarning, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"config","category":"config","status":"warning","message":"m"}`, string(data))
}
