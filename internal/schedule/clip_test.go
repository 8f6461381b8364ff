package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeguard/attendance-backend/internal/domain"
)

func clipCase(res domain.ClipResult) string {
	switch {
	case res.IsDayOff:
		return "full_day"
	case res.Split:
		return "split"
	case !res.Clipped:
		return "no_overlap"
	case res.Comment != "" && res.Comment[:5] == "early":
		return "early_leave"
	default:
		return "late_arrival"
	}
}

func TestClip_FullDayAbsence(t *testing.T) {
	res := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(8, 0), domain.MustTimeOfDay(19, 0))

	assert.True(t, res.IsDayOff)
	assert.True(t, res.Clipped)
	assert.Nil(t, res.Start)
	assert.Nil(t, res.End)
	assert.Equal(t, "full day absence", res.Comment)

	// Exact bounds count as a full day too.
	exact := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0))
	assert.True(t, exact.IsDayOff)
}

func TestClip_EarlyLeave(t *testing.T) {
	res := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(17, 0), domain.MustTimeOfDay(18, 0))

	require.True(t, res.Clipped)
	assert.False(t, res.IsDayOff)
	assert.Equal(t, "09:00", res.Start.String())
	assert.Equal(t, "17:00", res.End.String())
	assert.Equal(t, "early leave at 17:00", res.Comment)
}

func TestClip_LateArrival(t *testing.T) {
	res := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(8, 0), domain.MustTimeOfDay(11, 30))

	require.True(t, res.Clipped)
	assert.Equal(t, "11:30", res.Start.String())
	assert.Equal(t, "18:00", res.End.String())
	assert.Equal(t, "late arrival until 11:30", res.Comment)
}

func TestClip_MidShiftAbsenceKeepsBounds(t *testing.T) {
	res := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(11, 0), domain.MustTimeOfDay(12, 0))

	require.True(t, res.Clipped)
	assert.True(t, res.Split)
	assert.False(t, res.IsDayOff)
	assert.Equal(t, "09:00", res.Start.String())
	assert.Equal(t, "18:00", res.End.String())
	assert.Equal(t, "absence 11:00-12:00", res.Comment)
}

func TestClip_NoOverlapIsNoOp(t *testing.T) {
	before := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(6, 0), domain.MustTimeOfDay(9, 0))
	assert.False(t, before.Clipped)
	assert.Equal(t, "09:00", before.Start.String())
	assert.Equal(t, "18:00", before.End.String())
	assert.Empty(t, before.Comment)

	after := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(18, 0), domain.MustTimeOfDay(20, 0))
	assert.False(t, after.Clipped)
}

// Every valid pair of shift and absence intervals hits exactly one case.
func TestClip_CasesAreExhaustiveAndExclusive(t *testing.T) {
	marks := []domain.TimeOfDay{
		domain.MustTimeOfDay(7, 0),
		domain.MustTimeOfDay(9, 0),
		domain.MustTimeOfDay(11, 0),
		domain.MustTimeOfDay(13, 0),
		domain.MustTimeOfDay(18, 0),
		domain.MustTimeOfDay(21, 0),
	}

	counts := map[string]int{}
	for i, as := range marks {
		for _, ae := range marks[i+1:] {
			res := Clip(domain.MustTimeOfDay(9, 0), domain.MustTimeOfDay(18, 0), as, ae)
			// Exactly one of the outcome shapes holds.
			if res.IsDayOff {
				assert.Nil(t, res.Start)
				assert.False(t, res.Split)
			} else {
				require.NotNil(t, res.Start)
				require.NotNil(t, res.End)
				assert.True(t, res.Start.Before(*res.End))
			}
			counts[clipCase(res)]++
		}
	}

	for _, c := range []string{"full_day", "early_leave", "late_arrival", "split", "no_overlap"} {
		assert.Greater(t, counts[c], 0, "case %s never hit by the grid", c)
	}
}
