package services

// LevelInfo is one row of the fixed level table.
type LevelInfo struct {
	Level   int    `json:"level"`
	MinXP   int64  `json:"min_xp"`
	Title   string `json:"title"`
	Coins   int64  `json:"coins"`   // granted when the level is reached
	Shields int    `json:"shields"` // granted when the level is reached
}

// levelTable: 20 strictly increasing thresholds starting at 0.
var levelTable = [...]LevelInfo{
	{1, 0, "Rookie", 0, 0},
	{2, 100, "Apprentice", 10, 0},
	{3, 250, "Regular", 15, 1},
	{4, 500, "Reliable", 20, 0},
	{5, 850, "Dependable", 25, 1},
	{6, 1300, "Steady", 30, 0},
	{7, 1900, "Committed", 35, 0},
	{8, 2600, "Dedicated", 40, 1},
	{9, 3500, "Devoted", 45, 0},
	{10, 4600, "Veteran", 50, 1},
	{11, 5900, "Expert", 60, 0},
	{12, 7400, "Elite", 70, 1},
	{13, 9200, "Champion", 80, 0},
	{14, 11300, "Master", 90, 0},
	{15, 13700, "Grandmaster", 100, 1},
	{16, 16500, "Hero", 120, 0},
	{17, 19700, "Titan", 140, 0},
	{18, 23300, "Mythic", 160, 1},
	{19, 27400, "Immortal", 180, 0},
	{20, 32000, "Legend", 200, 2},
}

// MaxLevel is the top of the table.
const MaxLevel = len(levelTable)

// LevelFor returns the highest level whose threshold is <= xp.
func LevelFor(xp int64) int {
	lvl := 1
	for _, info := range levelTable {
		if xp >= info.MinXP {
			lvl = info.Level
		} else {
			break
		}
	}
	return lvl
}

// Level returns the table row for level n (clamped to the table range).
func Level(n int) LevelInfo {
	if n < 1 {
		n = 1
	}
	if n > MaxLevel {
		n = MaxLevel
	}
	return levelTable[n-1]
}

// Levels returns a copy of the full table.
func Levels() []LevelInfo {
	out := make([]LevelInfo, len(levelTable))
	copy(out, levelTable[:])
	return out
}

// levelRewards sums coins and shields for every level in (from, to].
func levelRewards(from, to int) (coins int64, shields int) {
	for lvl := from + 1; lvl <= to && lvl <= MaxLevel; lvl++ {
		info := levelTable[lvl-1]
		coins += info.Coins
		shields += info.Shields
	}
	return coins, shields
}

// XPToNextLevel returns remaining XP to the next level, 0 at max level.
func XPToNextLevel(xp int64) int64 {
	lvl := LevelFor(xp)
	if lvl >= MaxLevel {
		return 0
	}
	return levelTable[lvl].MinXP - xp
}
