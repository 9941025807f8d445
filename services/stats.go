package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"attendance-rewards/models"

	"gorm.io/gorm"
)

// Arrival and departure predicates, local wall-clock hours.
const (
	earlyArrivalHour  = 7  // first clock-in before 07:00
	lateArrivalHour   = 10 // first clock-in at or after 10:00
	onTimeHour        = 9  // first clock-in at or before 09:00
	lateDepartureHour = 20 // last clock-out at or after 20:00
	overtimeHours     = 9.0
	fullDayHours      = 8.0
)

// maxSessionSpan bounds how far back a clock-out looks for its clock-in.
const maxSessionSpan = 36 * time.Hour

// Stats is the history-derived snapshot badge criteria are tested against.
type Stats struct {
	TotalDays           int     `json:"total_days"`
	TotalHours          float64 `json:"total_hours"`
	CurrentStreak       int     `json:"current_streak"`
	LongestStreak       int     `json:"longest_streak"`
	PerfectWeeks        int     `json:"perfect_weeks"`
	MonthlyDays         int     `json:"monthly_days"`
	EarlyArrivals       int     `json:"early_arrivals"`
	LateArrivals        int     `json:"late_arrivals"`
	OnTimeDays          int     `json:"on_time_days"`
	OvertimeDays        int     `json:"overtime_days"`
	FullDays            int     `json:"full_days"`
	LateDepartures      int     `json:"late_departures"`
	WeekendDays         int     `json:"weekend_days"`
	KudosGiven          int     `json:"kudos_given"`
	KudosReceived       int     `json:"kudos_received"`
	ChallengesCompleted int     `json:"challenges_completed"`
	HiddenBadgesFound   int     `json:"hidden_badges_found"`
	BadgesEarned        int     `json:"badges_earned"`
	ShieldsUsed         int     `json:"shields_used"`
	Level               int     `json:"level"`
	TotalXP             int64   `json:"total_xp"`
}

// Value reads one stat by key; unknown keys report ok=false.
func (st *Stats) Value(key models.StatKey) (float64, bool) {
	switch key {
	case models.StatTotalDays:
		return float64(st.TotalDays), true
	case models.StatTotalHours:
		return st.TotalHours, true
	case models.StatCurrentStreak:
		return float64(st.CurrentStreak), true
	case models.StatLongestStreak:
		return float64(st.LongestStreak), true
	case models.StatPerfectWeeks:
		return float64(st.PerfectWeeks), true
	case models.StatMonthlyDays:
		return float64(st.MonthlyDays), true
	case models.StatEarlyArrivals:
		return float64(st.EarlyArrivals), true
	case models.StatLateArrivals:
		return float64(st.LateArrivals), true
	case models.StatOnTimeDays:
		return float64(st.OnTimeDays), true
	case models.StatOvertimeDays:
		return float64(st.OvertimeDays), true
	case models.StatFullDays:
		return float64(st.FullDays), true
	case models.StatLateDepartures:
		return float64(st.LateDepartures), true
	case models.StatWeekendDays:
		return float64(st.WeekendDays), true
	case models.StatKudosGiven:
		return float64(st.KudosGiven), true
	case models.StatKudosReceived:
		return float64(st.KudosReceived), true
	case models.StatChallengesComplete:
		return float64(st.ChallengesCompleted), true
	case models.StatHiddenBadgesFound:
		return float64(st.HiddenBadgesFound), true
	case models.StatBadgesEarned:
		return float64(st.BadgesEarned), true
	case models.StatShieldsUsed:
		return float64(st.ShieldsUsed), true
	case models.StatLevel:
		return float64(st.Level), true
	case models.StatTotalXP:
		return float64(st.TotalXP), true
	}
	return 0, false
}

// dayRecord aggregates one local calendar day of attendance.
type dayRecord struct {
	date        time.Time // local midnight
	qualifying  bool      // at least one on-site clock-in
	firstIn     time.Time
	lastOut     time.Time
	workedHours float64
	hasClockOut bool
}

// session is one clock-in/clock-out pair with breaks subtracted.
type session struct {
	in, out time.Time
	worked  time.Duration
}

// walkSessions pairs entries (sorted by time) into sessions.
// An unmatched clock-in is dropped when the next clock-in arrives.
func walkSessions(entries []models.AttendanceEntry, fn func(session)) {
	var in, breakAt time.Time
	var breaks time.Duration
	open, onBreak := false, false
	for _, e := range entries {
		switch e.EntryType {
		case models.EntryClockIn:
			in, open, onBreak, breaks = e.OccurredAt, true, false, 0
		case models.EntryBreakStart:
			if open && !onBreak {
				breakAt, onBreak = e.OccurredAt, true
			}
		case models.EntryBreakEnd:
			if open && onBreak {
				breaks += e.OccurredAt.Sub(breakAt)
				onBreak = false
			}
		case models.EntryClockOut:
			if !open {
				continue
			}
			if onBreak {
				breaks += e.OccurredAt.Sub(breakAt)
			}
			worked := e.OccurredAt.Sub(in) - breaks
			if worked < 0 {
				worked = 0
			}
			fn(session{in: in, out: e.OccurredAt, worked: worked})
			open, onBreak, breaks = false, false, 0
		}
	}
}

type StatsService struct {
	DB         *gorm.DB
	Now        func() time.Time
	DefaultLoc *time.Location
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db, Now: time.Now, DefaultLoc: time.UTC}
}

// ComputeStats rebuilds the snapshot by a full rescan of the user's history.
func (s *StatsService) ComputeStats(ctx context.Context, userID, orgID, timezone string) (*Stats, error) {
	db := s.DB.WithContext(ctx)
	loc := loadLocation(timezone, s.DefaultLoc)
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	var entries []models.AttendanceEntry
	if err := db.Where("user_id = ? AND org_id = ?", userID, orgID).
		Order("occurred_at ASC").
		Find(&entries).Error; err != nil {
		return nil, storeErr("load attendance", err)
	}

	st := &Stats{Level: 1}
	days := aggregateDays(entries, loc)
	fillAttendanceStats(st, days, now.In(loc))

	var profile models.RewardsProfile
	err := db.Where("user_id = ? AND org_id = ?", userID, orgID).First(&profile).Error
	if err != nil && !isNotFound(err) {
		return nil, storeErr("load profile", err)
	}
	if err == nil {
		st.CurrentStreak = profile.CurrentStreak
		st.LongestStreak = profile.LongestStreak
		st.Level = profile.Level
		st.TotalXP = profile.TotalXP
	}

	counts := []struct {
		dst   *int
		model interface{}
		where string
		args  []interface{}
	}{
		{&st.KudosGiven, &models.Kudos{}, "org_id = ? AND from_user_id = ?", []interface{}{orgID, userID}},
		{&st.KudosReceived, &models.Kudos{}, "org_id = ? AND to_user_id = ?", []interface{}{orgID, userID}},
		{&st.ChallengesCompleted, &models.ActiveChallenge{}, "user_id = ? AND org_id = ? AND status IN ?",
			[]interface{}{userID, orgID, []string{string(models.ChallengeCompleted), string(models.ChallengeClaimed)}}},
		{&st.BadgesEarned, &models.EarnedBadge{}, "user_id = ? AND org_id = ?", []interface{}{userID, orgID}},
	}
	for _, c := range counts {
		var n int64
		if err := db.Model(c.model).Where(c.where, c.args...).Count(&n).Error; err != nil {
			return nil, storeErr("count stats", err)
		}
		*c.dst = int(n)
	}

	var hidden int64
	if err := db.Model(&models.EarnedBadge{}).
		Joins("JOIN badge_definitions ON badge_definitions.id = earned_badges.badge_id").
		Where("earned_badges.user_id = ? AND earned_badges.org_id = ? AND badge_definitions.hidden = ?", userID, orgID, true).
		Count(&hidden).Error; err != nil {
		return nil, storeErr("count hidden badges", err)
	}
	st.HiddenBadgesFound = int(hidden)

	var shields struct{ Total int64 }
	if err := db.Model(&models.StreakHistory{}).
		Select("COALESCE(SUM(shields_used), 0) AS total").
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Scan(&shields).Error; err != nil {
		return nil, storeErr("sum shields", err)
	}
	st.ShieldsUsed = int(shields.Total)

	return st, nil
}

// aggregateDays folds entries into local days keyed by YYYY-MM-DD.
func aggregateDays(entries []models.AttendanceEntry, loc *time.Location) map[string]*dayRecord {
	days := make(map[string]*dayRecord)
	day := func(t time.Time) *dayRecord {
		lt := t.In(loc)
		key := lt.Format(dateLayout)
		d, ok := days[key]
		if !ok {
			d = &dayRecord{date: time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)}
			days[key] = d
		}
		return d
	}
	for _, e := range entries {
		if e.EntryType != models.EntryClockIn {
			continue
		}
		d := day(e.OccurredAt)
		if e.OnSite {
			d.qualifying = true
		}
		if d.firstIn.IsZero() || e.OccurredAt.Before(d.firstIn) {
			d.firstIn = e.OccurredAt
		}
	}
	walkSessions(entries, func(ss session) {
		d := day(ss.in)
		d.workedHours += ss.worked.Hours()
		if !d.hasClockOut || ss.out.After(d.lastOut) {
			d.lastOut = ss.out
			d.hasClockOut = true
		}
	})
	return days
}

func fillAttendanceStats(st *Stats, days map[string]*dayRecord, now time.Time) {
	weeks := make(map[string]map[time.Weekday]bool)
	month := now.Format("2006-01")

	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		d := days[k]
		st.TotalHours += d.workedHours
		if !d.qualifying {
			continue
		}
		st.TotalDays++
		if d.date.Format("2006-01") == month {
			st.MonthlyDays++
		}
		if isWeekend(d.date) {
			st.WeekendDays++
		} else {
			y, w := d.date.ISOWeek()
			wk := fmt.Sprintf("%04d-W%02d", y, w)
			if weeks[wk] == nil {
				weeks[wk] = make(map[time.Weekday]bool)
			}
			weeks[wk][d.date.Weekday()] = true
		}

		in := d.firstIn.In(d.date.Location())
		if !d.firstIn.IsZero() {
			switch {
			case in.Hour() < earlyArrivalHour:
				st.EarlyArrivals++
			case in.Hour() >= lateArrivalHour:
				st.LateArrivals++
			}
			if in.Hour() < onTimeHour || (in.Hour() == onTimeHour && in.Minute() == 0 && in.Second() == 0) {
				st.OnTimeDays++
			}
		}
		if d.workedHours > overtimeHours {
			st.OvertimeDays++
		}
		if d.workedHours >= fullDayHours {
			st.FullDays++
		}
		if d.hasClockOut && d.lastOut.In(d.date.Location()).Hour() >= lateDepartureHour {
			st.LateDepartures++
		}
	}
	for _, wd := range weeks {
		if len(wd) == 5 {
			st.PerfectWeeks++
		}
	}
}

// SessionHours returns the worked hours of the session closed at clockOut, 0 if none.
func (s *StatsService) SessionHours(ctx context.Context, userID, orgID string, clockOut time.Time) (float64, error) {
	var entries []models.AttendanceEntry
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND org_id = ? AND occurred_at >= ? AND occurred_at <= ?", userID, orgID, clockOut.Add(-maxSessionSpan), clockOut).
		Order("occurred_at ASC").
		Find(&entries).Error
	if err != nil {
		return 0, storeErr("load session", err)
	}
	hours := 0.0
	walkSessions(entries, func(ss session) {
		if ss.out.Equal(clockOut) {
			hours = ss.worked.Hours()
		}
	})
	return hours, nil
}
