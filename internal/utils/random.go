package utils

import (
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/timeguard/attendance-backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateEmailLocalFromChineseName romanizes the name into an email local
// part, with a digit suffix against collisions.
func GenerateEmailLocalFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	local := ""

	for _, syllable := range pinyinArray {
		length := rand.Intn(len(syllable)) + 1
		local += syllable[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}

	return local
}

var roles = []domain.Role{
	domain.RoleEmployee,
	domain.RoleEmployee,
	domain.RoleEmployee,
	domain.RoleSecurity,
	domain.RoleAdmin,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var positions = []string{"operator", "manager", "courier", "accountant"}

var patterns = []domain.SchedulePattern{
	domain.PatternFiveTwo,
	domain.PatternSixOne,
	domain.PatternSevenZero,
	domain.PatternTwoTwo,
}

// GenerateRandomEmployee builds a plausible employee row for seeding. 2/2
// employees get an anchor within the last rotation cycle; one in a few is
// left anchorless on purpose to exercise the fallback path.
func GenerateRandomEmployee(password string, emailDomainName string) (*domain.Employee, error) {
	fullName := GenerateRandomChineseName()
	emailLocal := GenerateEmailLocalFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	emp := &domain.Employee{
		FullName:     fullName,
		Position:     positions[rand.Intn(len(positions))],
		Role:         GenerateRandomRole(),
		Email:        emailLocal + "@" + emailDomainName,
		Pattern:      patterns[rand.Intn(len(patterns))],
		PasswordHash: string(passwordHash),
	}

	if emp.Pattern == domain.PatternTwoTwo && rand.Intn(5) != 0 {
		anchor := time.Now().AddDate(0, 0, -rand.Intn(4))
		anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
		emp.AnchorDate = &anchor
	}

	startHour := 8 + rand.Intn(3)
	start := domain.MustTimeOfDay(startHour, 0)
	end := domain.MustTimeOfDay(startHour+9, 0)
	emp.DefaultStart = &start
	emp.DefaultEnd = &end

	return emp, nil
}

// GenerateRandomOverride produces an override within the given number of
// days around today, roughly half of them day-offs.
func GenerateRandomOverride(employeeID int64, spreadDays int) domain.ScheduleOverride {
	date := time.Now().AddDate(0, 0, rand.Intn(2*spreadDays+1)-spreadDays)
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	ov := domain.ScheduleOverride{
		EmployeeID: employeeID,
		WorkDate:   date,
	}

	if rand.Intn(2) == 0 {
		ov.IsDayOff = true
		ov.Comment = "seeded day off"
		return ov
	}

	start := domain.MustTimeOfDay(7+rand.Intn(4), 0)
	end := domain.MustTimeOfDay(16+rand.Intn(4), 30)
	ov.StartTime = &start
	ov.EndTime = &end
	ov.Comment = "seeded custom hours"
	return ov
}

func GenerateRandomDeal(employeeID int64, spreadDays int) domain.Deal {
	scheduledAt := time.Now().AddDate(0, 0, rand.Intn(spreadDays+1)).
		Truncate(time.Hour).
		Add(time.Duration(9+rand.Intn(10)) * time.Hour)

	statuses := []string{"open", "open", "pending", domain.DealStatusClosed}
	return domain.Deal{
		EmployeeID:  employeeID,
		ScheduledAt: scheduledAt,
		Status:      statuses[rand.Intn(len(statuses))],
	}
}
