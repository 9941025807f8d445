package catalog

import "attendance-rewards/models"

const (
	common    = models.RarityCommon
	uncommon  = models.RarityUncommon
	rare      = models.RarityRare
	epic      = models.RarityEpic
	legendary = models.RarityLegendary
)

var badges = []Badge{
	// Attendance days
	badge("First Day", "Clock in for the first time", common, stat(models.StatTotalDays, 1)),
	badge("High Five", "Show up on 5 different days", common, stat(models.StatTotalDays, 5)),
	badge("Double Digits", "Show up on 10 different days", common, stat(models.StatTotalDays, 10)),
	badge("Quarter Century", "Show up on 25 different days", uncommon, stat(models.StatTotalDays, 25)),
	badge("Half Hundred", "Show up on 50 different days", uncommon, stat(models.StatTotalDays, 50)),
	badge("Seventy Five Strong", "Show up on 75 different days", rare, stat(models.StatTotalDays, 75)),
	badge("Centurion", "Show up on 100 different days", rare, stat(models.StatTotalDays, 100)),
	badge("Seasoned", "Show up on 150 different days", rare, stat(models.StatTotalDays, 150)),
	badge("Two Hundred Club", "Show up on 200 different days", epic, stat(models.StatTotalDays, 200)),
	badge("Fixture", "Show up on 250 different days", epic, stat(models.StatTotalDays, 250)),
	badge("Year of Showing Up", "Show up on 365 different days", legendary, stat(models.StatTotalDays, 365)),
	badge("Five Hundred Days", "Show up on 500 different days", legendary, stat(models.StatTotalDays, 500)),
	badge("Institution", "Show up on 750 different days", legendary, stat(models.StatTotalDays, 750)),
	badge("Thousand Days", "Show up on 1000 different days", legendary, stat(models.StatTotalDays, 1000)),

	// Hours
	badge("Full Shift", "Log 8 hours in total", common, stat(models.StatTotalHours, 8)),
	badge("Forty Hours", "Log 40 hours in total", common, stat(models.StatTotalHours, 40)),
	badge("Hundred Hours", "Log 100 hours in total", uncommon, stat(models.StatTotalHours, 100)),
	badge("Time Investor", "Log 250 hours in total", uncommon, stat(models.StatTotalHours, 250)),
	badge("Five Hundred Hours", "Log 500 hours in total", rare, stat(models.StatTotalHours, 500)),
	badge("Thousand Hours", "Log 1000 hours in total", epic, stat(models.StatTotalHours, 1000)),
	badge("Two Thousand Hours", "Log 2000 hours in total", epic, stat(models.StatTotalHours, 2000)),
	badge("Ten Thousand Hour Rule", "Log 5000 hours in total", legendary, stat(models.StatTotalHours, 5000)),

	// Streaks
	inSet(badge("Warming Up", "Reach a 3 day streak", common, streak(3)), "streaks"),
	inSet(badge("On a Roll", "Reach a 5 day streak", common, streak(5)), "streaks"),
	inSet(badge("Week Strong", "Reach a 7 day streak", uncommon, streak(7)), "streaks"),
	inSet(badge("Ten in a Row", "Reach a 10 day streak", uncommon, streak(10)), "streaks"),
	inSet(badge("Twenty Straight", "Reach a 20 day streak", rare, streak(20)), "streaks"),
	inSet(badge("Max Multiplier", "Reach a 25 day streak", rare, streak(25)), "streaks"),
	inSet(badge("Monthly Marathoner", "Reach a 30 day streak", rare, streak(30)), "streaks"),
	inSet(badge("Sixty Strong", "Reach a 60 day streak", epic, streak(60)), "streaks"),
	inSet(badge("Quarter Year", "Reach a 90 day streak", epic, streak(90)), "streaks"),
	inSet(badge("Unbroken Hundred", "Reach a 100 day streak", legendary, streak(100)), "streaks"),
	inSet(badge("Iron Will", "Reach a 200 day streak", legendary, streak(200)), "streaks"),
	inSet(badge("Eternal Flame", "Reach a 365 day streak", legendary, streak(365)), "streaks"),

	// Perfect weeks
	badge("Perfect Week", "Attend every weekday of a week", common, stat(models.StatPerfectWeeks, 1)),
	badge("Perfect Fortnight", "Complete 2 perfect weeks", uncommon, stat(models.StatPerfectWeeks, 2)),
	badge("Perfect Month", "Complete 4 perfect weeks", uncommon, stat(models.StatPerfectWeeks, 4)),
	badge("Perfect Eight", "Complete 8 perfect weeks", rare, stat(models.StatPerfectWeeks, 8)),
	badge("Perfect Quarter", "Complete 12 perfect weeks", rare, stat(models.StatPerfectWeeks, 12)),
	badge("Perfect Half", "Complete 26 perfect weeks", epic, stat(models.StatPerfectWeeks, 26)),
	badge("Perfect Year", "Complete 52 perfect weeks", legendary, stat(models.StatPerfectWeeks, 52)),

	// This month
	badge("Busy Month", "Attend 10 days in one month", common, stat(models.StatMonthlyDays, 10)),
	badge("Packed Month", "Attend 15 days in one month", uncommon, stat(models.StatMonthlyDays, 15)),
	badge("Full Month", "Attend 20 days in one month", rare, stat(models.StatMonthlyDays, 20)),

	// Early arrivals
	badge("Early Bird", "Clock in before 7am", common, stat(models.StatEarlyArrivals, 1)),
	badge("Dawn Regular", "Clock in before 7am on 5 days", common, stat(models.StatEarlyArrivals, 5)),
	badge("Sunrise Crew", "Clock in before 7am on 10 days", uncommon, stat(models.StatEarlyArrivals, 10)),
	badge("First Light", "Clock in before 7am on 25 days", rare, stat(models.StatEarlyArrivals, 25)),
	badge("Rooster", "Clock in before 7am on 50 days", epic, stat(models.StatEarlyArrivals, 50)),
	badge("Keeper of Dawn", "Clock in before 7am on 100 days", legendary, stat(models.StatEarlyArrivals, 100)),

	// Punctuality
	badge("Punctual", "Clock in by 9am on 5 days", common, stat(models.StatOnTimeDays, 5)),
	badge("Like Clockwork", "Clock in by 9am on 10 days", common, stat(models.StatOnTimeDays, 10)),
	badge("Reliable", "Clock in by 9am on 25 days", uncommon, stat(models.StatOnTimeDays, 25)),
	badge("Swiss Watch", "Clock in by 9am on 50 days", rare, stat(models.StatOnTimeDays, 50)),
	badge("Atomic Clock", "Clock in by 9am on 100 days", epic, stat(models.StatOnTimeDays, 100)),
	badge("Timekeeper", "Clock in by 9am on 250 days", legendary, stat(models.StatOnTimeDays, 250)),

	// Late arrivals
	hidden(badge("Fashionably Late", "Clock in at 10am or later", common, stat(models.StatLateArrivals, 1))),
	hidden(badge("Own Time Zone", "Clock in at 10am or later on 10 days", uncommon, stat(models.StatLateArrivals, 10))),

	// Overtime
	badge("Extra Mile", "Work more than 9 hours in a day", common, stat(models.StatOvertimeDays, 1)),
	badge("Overtimer", "Work more than 9 hours on 5 days", uncommon, stat(models.StatOvertimeDays, 5)),
	badge("Workhorse", "Work more than 9 hours on 10 days", uncommon, stat(models.StatOvertimeDays, 10)),
	badge("Powerhouse", "Work more than 9 hours on 25 days", rare, stat(models.StatOvertimeDays, 25)),
	badge("Unstoppable", "Work more than 9 hours on 50 days", epic, stat(models.StatOvertimeDays, 50)),

	// Full days
	badge("Full Day", "Work at least 8 hours in a day", common, stat(models.StatFullDays, 1)),
	badge("Full Ten", "Work at least 8 hours on 10 days", common, stat(models.StatFullDays, 10)),
	badge("Full Fifty", "Work at least 8 hours on 50 days", uncommon, stat(models.StatFullDays, 50)),
	badge("Full Hundred", "Work at least 8 hours on 100 days", rare, stat(models.StatFullDays, 100)),
	badge("Full Two Hundred", "Work at least 8 hours on 200 days", epic, stat(models.StatFullDays, 200)),

	// Late departures
	hidden(badge("Night Owl", "Clock out at 8pm or later", common, stat(models.StatLateDepartures, 1))),
	badge("Late Shift", "Clock out at 8pm or later on 10 days", uncommon, stat(models.StatLateDepartures, 10)),
	badge("Moonlighter", "Clock out at 8pm or later on 25 days", rare, stat(models.StatLateDepartures, 25)),

	// Weekends
	hidden(badge("Weekend Warrior", "Clock in on a weekend", uncommon, stat(models.StatWeekendDays, 1))),
	badge("Weekend Regular", "Clock in on 5 weekend days", uncommon, stat(models.StatWeekendDays, 5)),
	badge("Seven Day Week", "Clock in on 10 weekend days", rare, stat(models.StatWeekendDays, 10)),

	// Kudos
	badge("Cheerleader", "Give your first kudos", common, stat(models.StatKudosGiven, 1)),
	badge("Encourager", "Give 10 kudos", common, stat(models.StatKudosGiven, 10)),
	badge("Morale Booster", "Give 25 kudos", uncommon, stat(models.StatKudosGiven, 25)),
	badge("Culture Keeper", "Give 50 kudos", rare, stat(models.StatKudosGiven, 50)),
	badge("Appreciated", "Receive your first kudos", common, stat(models.StatKudosReceived, 1)),
	badge("Well Liked", "Receive 10 kudos", common, stat(models.StatKudosReceived, 10)),
	badge("Team Favorite", "Receive 25 kudos", uncommon, stat(models.StatKudosReceived, 25)),
	badge("Office Legend", "Receive 50 kudos", rare, stat(models.StatKudosReceived, 50)),

	// Challenges
	badge("Challenger", "Complete your first challenge", common, stat(models.StatChallengesComplete, 1)),
	badge("Go Getter", "Complete 5 challenges", common, stat(models.StatChallengesComplete, 5)),
	badge("Achiever", "Complete 10 challenges", uncommon, stat(models.StatChallengesComplete, 10)),
	badge("Quest Hunter", "Complete 25 challenges", rare, stat(models.StatChallengesComplete, 25)),
	badge("Challenge Master", "Complete 50 challenges", epic, stat(models.StatChallengesComplete, 50)),
	badge("Unchallenged", "Complete 100 challenges", legendary, stat(models.StatChallengesComplete, 100)),

	// Secrets
	hidden(badge("Secret Finder", "Find a hidden badge", uncommon, stat(models.StatHiddenBadgesFound, 1))),
	hidden(badge("Treasure Hunter", "Find 3 hidden badges", rare, stat(models.StatHiddenBadgesFound, 3))),
	hidden(badge("Keeper of Secrets", "Find 5 hidden badges", epic, stat(models.StatHiddenBadgesFound, 5))),

	// Shields
	badge("Saved by the Shield", "Use a streak shield", common, shields(1)),
	badge("Shield Bearer", "Use 5 streak shields", uncommon, shields(5)),
	badge("Bulwark", "Use 10 streak shields", rare, shields(10)),

	// Levels
	badge("Level 5", "Reach level 5", common, level(5)),
	badge("Level 10", "Reach level 10", uncommon, level(10)),
	badge("Level 15", "Reach level 15", rare, level(15)),
	badge("Level 20", "Reach the top level", legendary, level(20)),

	// Collector
	badge("Collector", "Earn 10 badges", uncommon, stat(models.StatBadgesEarned, 10)),
	badge("Curator", "Earn 25 badges", rare, stat(models.StatBadgesEarned, 25)),
	badge("Museum Piece", "Earn 50 badges", epic, stat(models.StatBadgesEarned, 50)),

	// Seasonal (recurring MM-DD windows)
	seasonal(badge("New Year Starter", "Show up in the first week of January", uncommon, stat(models.StatTotalDays, 1)), "01-01", "01-07"),
	seasonal(badge("Spring Forward", "Show up during spring", uncommon, stat(models.StatTotalDays, 1)), "03-20", "04-20"),
	seasonal(badge("Summer Grind", "Show up during the summer", uncommon, stat(models.StatTotalDays, 1)), "06-21", "08-31"),
	seasonal(badge("Harvest Hustle", "Show up during the harvest season", uncommon, stat(models.StatTotalDays, 1)), "09-22", "10-31"),
	seasonal(badge("Holiday Hero", "Show up during the holidays", rare, stat(models.StatTotalDays, 1)), "12-15", "12-31"),
	seasonal(badge("Winter Warrior", "Hold a 5 day streak in winter", rare, streak(5)), "12-21", "03-19"),

	// Advanced criteria: catalogued, not evaluated by the engine.
	badge("Early Streaker", "Clock in early 5 days in a row", epic, advanced(models.CriteriaCombo, map[string]any{"stat": "early_arrivals", "streak": 5})),
	badge("Dawn Patrol", "Clock in between 5am and 6am", rare, advanced(models.CriteriaTimeWindow, map[string]any{"from": "05:00", "to": "06:00"})),
	badge("Four Seasons", "Earn every seasonal badge", legendary, advanced(models.CriteriaCollection, map[string]any{"set": "seasons"})),
	badge("Streak Collector", "Earn every streak badge", legendary, advanced(models.CriteriaCollection, map[string]any{"set": "streaks"})),
	badge("Perfect Quarter Run", "Three perfect months back to back", legendary, advanced(models.CriteriaConsecutive, map[string]any{"stat": "perfect_weeks", "periods": 3})),
	hidden(badge("Comeback Kid", "Rebuild a 10 day streak after losing one", rare, advanced(models.CriteriaComeback, map[string]any{"streak": 10}))),
	badge("Team Player", "Clock in with your whole team on the same day", epic, advanced(models.CriteriaSocial, map[string]any{"scope": "team"})),
	hidden(badge("Full House", "Everyone in the office on the same day", legendary, advanced(models.CriteriaSocial, map[string]any{"scope": "org"}))),
}
