package catalog

var titles = []Title{
	{Name: "Newcomer", Description: "Everyone starts somewhere", MinLevel: 1, CoinCost: 0},
	{Name: "Regular", Description: "A familiar face", MinLevel: 2, CoinCost: 25},
	{Name: "Punctual Pro", Description: "Always on time", MinLevel: 3, CoinCost: 50},
	{Name: "Early Riser", Description: "Beats the sunrise", MinLevel: 3, CoinCost: 60},
	{Name: "Steady Hand", Description: "Reliable as ever", MinLevel: 4, CoinCost: 80},
	{Name: "Streak Keeper", Description: "Never misses a day", MinLevel: 5, CoinCost: 100},
	{Name: "Team Spirit", Description: "Lifts everyone up", MinLevel: 5, CoinCost: 100},
	{Name: "Night Shift", Description: "Lights out? Not yet", MinLevel: 6, CoinCost: 120},
	{Name: "Grinder", Description: "Puts in the hours", MinLevel: 7, CoinCost: 150},
	{Name: "Challenger", Description: "Takes on every challenge", MinLevel: 8, CoinCost: 175},
	{Name: "Shieldbearer", Description: "Protects the streak", MinLevel: 9, CoinCost: 200},
	{Name: "Veteran", Description: "Been here, done that", MinLevel: 10, CoinCost: 250},
	{Name: "Trailblazer", Description: "Sets the pace", MinLevel: 11, CoinCost: 300},
	{Name: "Pillar", Description: "Holds the team together", MinLevel: 12, CoinCost: 350},
	{Name: "Ironclad", Description: "Unbreakable routine", MinLevel: 13, CoinCost: 400},
	{Name: "Champion", Description: "Top of the board", MinLevel: 14, CoinCost: 450},
	{Name: "Maestro", Description: "Conducts the workday", MinLevel: 15, CoinCost: 500},
	{Name: "Sentinel", Description: "Always on watch", MinLevel: 16, CoinCost: 600},
	{Name: "Titan", Description: "A force of attendance", MinLevel: 17, CoinCost: 700},
	{Name: "Mythic", Description: "Spoken of in legends", MinLevel: 18, CoinCost: 800},
	{Name: "Immortal", Description: "Simply never leaves", MinLevel: 19, CoinCost: 900},
	{Name: "Legend", Description: "The top of the ladder", MinLevel: 20, CoinCost: 1000},
	{Name: "Secret Keeper", Description: "Knows where the hidden badges are", MinLevel: 10, CoinCost: 500},
}
