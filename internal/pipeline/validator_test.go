package pipeline

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/petrvlcek232/techcon-growth-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMonthID(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerMonthID(v))

	assert.NoError(t, v.Var("2024-02", "monthid"))
	assert.Error(t, v.Var("2024-13", "monthid"))
}

func TestCheckReportsMonthID(t *testing.T) {
	v := NewRowValidator()

	ok := Check(v, domain.RawRow{Customer: "Acme", Period: "2024-01"}, 2)
	assert.True(t, ok.OK())

	bad := Check(v, domain.RawRow{Customer: "Acme", Period: "01/2024"}, 3)
	require.False(t, bad.OK())
	assert.Contains(t, bad.Problems, `period must be a YYYY-MM month (got "01/2024")`)
	assert.Equal(t, 3, bad.Line)
}
