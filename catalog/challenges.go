package catalog

import "attendance-rewards/models"

func clockInBefore(hour, times int) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: models.CriteriaClockInBefore, Hour: hour, Threshold: times}
}

func counted(t models.CriteriaType, n int) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: t, Threshold: n}
}

func hoursWorked(h float64) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: models.CriteriaHoursWorked, Hours: h}
}

var challenges = []Challenge{
	// Daily
	{Name: "Early Bird Special", Description: "Clock in before 8am", Period: models.PeriodDaily, Criteria: clockInBefore(8, 0), XPReward: 20, CoinReward: 5, MinLevel: 1},
	{Name: "On the Dot", Description: "Clock in before 9am", Period: models.PeriodDaily, Criteria: clockInBefore(9, 0), XPReward: 15, CoinReward: 3, MinLevel: 1},
	{Name: "Take a Breather", Description: "Take a break today", Period: models.PeriodDaily, Criteria: counted(models.CriteriaTakeBreak, 1), XPReward: 10, CoinReward: 2, MinLevel: 1},
	{Name: "Solid Shift", Description: "Work 8 hours today", Period: models.PeriodDaily, Criteria: hoursWorked(8), XPReward: 25, CoinReward: 5, MinLevel: 1},
	{Name: "Double Recharge", Description: "Take two breaks today", Period: models.PeriodDaily, Criteria: counted(models.CriteriaTakeBreak, 2), XPReward: 20, CoinReward: 4, MinLevel: 3},

	// Weekly
	{Name: "Streak Builder", Description: "Reach a 5 day streak", Period: models.PeriodWeekly, Criteria: counted(models.CriteriaStreakReach, 5), XPReward: 75, CoinReward: 15, MinLevel: 1},
	{Name: "Early Week", Description: "Clock in before 8am on three days this week", Period: models.PeriodWeekly, Criteria: clockInBefore(8, 3), XPReward: 60, CoinReward: 12, MinLevel: 1},
	{Name: "Five for Five", Description: "Clock in on 5 days this week", Period: models.PeriodWeekly, Criteria: counted(models.CriteriaClockInCount, 5), XPReward: 60, CoinReward: 12, MinLevel: 1},
	{Name: "Forty Hours", Description: "Work 40 hours this week", Period: models.PeriodWeekly, Criteria: hoursWorked(40), XPReward: 100, CoinReward: 20, MinLevel: 2},
	{Name: "Balanced Week", Description: "Take 5 breaks this week", Period: models.PeriodWeekly, Criteria: counted(models.CriteriaTakeBreak, 5), XPReward: 40, CoinReward: 8, MinLevel: 1},

	// Monthly
	{Name: "Marathon Month", Description: "Clock in on 20 days this month", Period: models.PeriodMonthly, Criteria: counted(models.CriteriaClockInCount, 20), XPReward: 250, CoinReward: 50, MinLevel: 1},
	{Name: "Dedicated", Description: "Work 160 hours this month", Period: models.PeriodMonthly, Criteria: hoursWorked(160), XPReward: 300, CoinReward: 60, MinLevel: 5},
	{Name: "Streak Master", Description: "Reach a 15 day streak this month", Period: models.PeriodMonthly, Criteria: counted(models.CriteriaStreakReach, 15), XPReward: 350, CoinReward: 70, MinLevel: 8},
}
