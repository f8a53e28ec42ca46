package eligibility_test

import (
	"testing"
	"time"

	"booking-system/eligibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBookable(t *testing.T) {
	p := eligibility.Default()

	tests := []struct {
		date string
		want bool
	}{
		{"2026-03-01", true},
		{"2026-03-07", true},
		{"2026-03-31", true},
		{"2026-03-08", false},
		{"2026-03-32", false},
		{"2026-04-01", false},
		{"2025-03-01", false},
		{"2026-3-7", false},
		{"", false},
		{"not-a-date", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsBookable(tt.date))
		})
	}
}

func TestIsBookableOtherMonth(t *testing.T) {
	p := eligibility.Policy{Year: 2027, Month: time.February}
	assert.True(t, p.IsBookable("2027-02-27"))
	assert.False(t, p.IsBookable("2027-02-28"))
	assert.False(t, p.IsBookable("2026-03-07"))
}

func TestTemplateFor(t *testing.T) {
	assert.Equal(t, eligibility.TemplateMorning, eligibility.TemplateFor(1))
	assert.Equal(t, eligibility.TemplateLate, eligibility.TemplateFor(3))
	assert.Equal(t, eligibility.TemplateMorning, eligibility.TemplateFor(5))
	assert.Equal(t, eligibility.TemplateLate, eligibility.TemplateFor(7))
	assert.Equal(t, eligibility.TemplateMorning, eligibility.TemplateFor(9))
	assert.Equal(t, eligibility.TemplateMorning, eligibility.TemplateFor(29))
	assert.Equal(t, eligibility.TemplateLate, eligibility.TemplateFor(31))
}

func TestSlotSchedule(t *testing.T) {
	p := eligibility.Default()

	t.Run("morning template", func(t *testing.T) {
		windows := p.SlotSchedule("2026-03-01")
		require.Len(t, windows, 9)
		assert.Equal(t, eligibility.Window{Start: "09:00", End: "10:00", Label: "09:00-10:00"}, windows[0])
		assert.Equal(t, eligibility.Window{Start: "17:00", End: "18:00", Label: "17:00-18:00"}, windows[8])
	})

	t.Run("late template on the fourth eligible day", func(t *testing.T) {
		windows := p.SlotSchedule("2026-03-07")
		require.Len(t, windows, 9)
		assert.Equal(t, "10:00", windows[0].Start)
		assert.Equal(t, "19:00", windows[8].End)
		assert.Equal(t, "18:00-19:00", windows[8].Label)
	})

	t.Run("ordered and contiguous", func(t *testing.T) {
		windows := p.SlotSchedule("2026-03-13")
		for i := 1; i < len(windows); i++ {
			assert.Equal(t, windows[i-1].End, windows[i].Start)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, p.SlotSchedule("2026-03-21"), p.SlotSchedule("2026-03-21"))
	})

	t.Run("not bookable", func(t *testing.T) {
		assert.Nil(t, p.SlotSchedule("2026-03-08"))
		assert.Nil(t, p.SlotSchedule("garbage"))
	})
}
