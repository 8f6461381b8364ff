package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timeguard/attendance-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tod(h, m int) *domain.TimeOfDay {
	t := domain.MustTimeOfDay(h, m)
	return &t
}

func testEmployee(pattern domain.SchedulePattern, anchor *time.Time) *domain.Employee {
	return &domain.Employee{
		ID:           1,
		FullName:     "Anna Petrova",
		Pattern:      pattern,
		AnchorDate:   anchor,
		DefaultStart: tod(9, 0),
		DefaultEnd:   tod(18, 0),
	}
}

func TestResolveDefault_FiveTwo(t *testing.T) {
	emp := testEmployee(domain.PatternFiveTwo, nil)

	// 2024-03-04 is a Monday.
	for i := 0; i < 5; i++ {
		def := ResolveDefault(emp, date(2024, time.March, 4+i))
		assert.False(t, def.IsWeekend, "weekday %d", i)
		require.NotNil(t, def.Start)
		assert.Equal(t, "09:00", def.Start.String())
		assert.Equal(t, "18:00", def.End.String())
	}
	assert.True(t, ResolveDefault(emp, date(2024, time.March, 9)).IsWeekend) // Saturday
	assert.True(t, ResolveDefault(emp, date(2024, time.March, 10)).IsWeekend)
}

func TestResolveDefault_SixOne(t *testing.T) {
	emp := testEmployee(domain.PatternSixOne, nil)

	assert.False(t, ResolveDefault(emp, date(2024, time.March, 9)).IsWeekend) // Saturday works
	assert.True(t, ResolveDefault(emp, date(2024, time.March, 10)).IsWeekend) // Sunday rests
}

func TestResolveDefault_SevenZero(t *testing.T) {
	emp := testEmployee(domain.PatternSevenZero, nil)

	for i := 0; i < 14; i++ {
		def := ResolveDefault(emp, date(2024, time.March, 4+i))
		assert.False(t, def.IsWeekend)
	}
}

func TestResolveDefault_TwoTwoCycle(t *testing.T) {
	anchor := date(2024, time.January, 1)
	emp := testEmployee(domain.PatternTwoTwo, &anchor)

	// Days 1,2 on / 3,4 off, repeating.
	expectWeekend := []bool{false, false, true, true, false, false, true, true}
	for i, want := range expectWeekend {
		def := ResolveDefault(emp, anchor.AddDate(0, 0, i))
		assert.Equal(t, want, def.IsWeekend, "day %d", i+1)
		assert.False(t, def.FallbackUsed)
	}
}

func TestResolveDefault_TwoTwoBeforeAnchor(t *testing.T) {
	anchor := date(2024, time.January, 15)
	emp := testEmployee(domain.PatternTwoTwo, &anchor)

	// The cycle has period 4 and is symmetric around the anchor.
	for i := -12; i <= 12; i++ {
		got := ResolveDefault(emp, anchor.AddDate(0, 0, i))
		ref := ResolveDefault(emp, anchor.AddDate(0, 0, i+4))
		assert.Equal(t, ref.IsWeekend, got.IsWeekend, "offset %d", i)
	}
	assert.False(t, ResolveDefault(emp, anchor).IsWeekend)
	assert.Equal(t,
		ResolveDefault(emp, anchor).IsWeekend,
		ResolveDefault(emp, anchor.AddDate(0, 0, -4)).IsWeekend)
}

func TestResolveDefault_TwoTwoWithoutAnchorFallsBack(t *testing.T) {
	emp := testEmployee(domain.PatternTwoTwo, nil)

	sat := ResolveDefault(emp, date(2024, time.March, 9))
	assert.True(t, sat.IsWeekend)
	assert.True(t, sat.FallbackUsed)

	wed := ResolveDefault(emp, date(2024, time.March, 6))
	assert.False(t, wed.IsWeekend)
	assert.True(t, wed.FallbackUsed)
}

func TestResolveDefault_UnknownPatternFallsBack(t *testing.T) {
	emp := testEmployee(domain.SchedulePattern("4/3"), nil)

	def := ResolveDefault(emp, date(2024, time.March, 9))
	assert.True(t, def.IsWeekend)
	assert.True(t, def.FallbackUsed)
}

func TestResolveDefault_ExactlyWorkOrWeekend(t *testing.T) {
	anchor := date(2024, time.February, 10)
	patterns := []*domain.Employee{
		testEmployee(domain.PatternFiveTwo, nil),
		testEmployee(domain.PatternSixOne, nil),
		testEmployee(domain.PatternSevenZero, nil),
		testEmployee(domain.PatternTwoTwo, &anchor),
	}

	for _, emp := range patterns {
		for i := 0; i < 30; i++ {
			def := ResolveDefault(emp, date(2024, time.March, 1).AddDate(0, 0, i))
			if def.IsWeekend {
				assert.Nil(t, def.Start)
				assert.Nil(t, def.End)
			} else {
				assert.NotNil(t, def.Start)
				assert.NotNil(t, def.End)
			}
		}
	}
}
