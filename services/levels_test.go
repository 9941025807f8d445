package services

import "testing"

func TestLevelTableStrictlyIncreasing(t *testing.T) {
	levels := Levels()
	if len(levels) != 20 {
		t.Fatalf("levels: got %d want 20", len(levels))
	}
	if levels[0].MinXP != 0 {
		t.Fatalf("first threshold: got %d want 0", levels[0].MinXP)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].MinXP <= levels[i-1].MinXP {
			t.Fatalf("threshold %d (%d) not above %d", i+1, levels[i].MinXP, levels[i-1].MinXP)
		}
		if levels[i].Level != i+1 {
			t.Fatalf("level numbering broken at %d", i)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		xp   int64
		want int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{249, 2},
		{250, 3},
		{31999, 19},
		{32000, 20},
		{1 << 40, 20},
		{-5, 1},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.xp); got != tc.want {
			t.Fatalf("LevelFor(%d): got %d want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelForMonotonic(t *testing.T) {
	prev := LevelFor(0)
	for xp := int64(0); xp <= 40000; xp += 7 {
		lvl := LevelFor(xp)
		if lvl < prev {
			t.Fatalf("LevelFor(%d) = %d dropped below %d", xp, lvl, prev)
		}
		prev = lvl
	}
}

func TestLevelRewardsSumsEveryCrossedLevel(t *testing.T) {
	coins, shields := levelRewards(1, 5)
	wantCoins := Level(2).Coins + Level(3).Coins + Level(4).Coins + Level(5).Coins
	wantShields := Level(3).Shields + Level(5).Shields
	if coins != wantCoins || shields != wantShields {
		t.Fatalf("levelRewards(1,5): got %d/%d want %d/%d", coins, shields, wantCoins, wantShields)
	}
	if c, s := levelRewards(4, 4); c != 0 || s != 0 {
		t.Fatalf("no crossing should pay nothing, got %d/%d", c, s)
	}
}

func TestXPToNextLevel(t *testing.T) {
	if got := XPToNextLevel(90); got != 10 {
		t.Fatalf("XPToNextLevel(90): got %d want 10", got)
	}
	if got := XPToNextLevel(50000); got != 0 {
		t.Fatalf("XPToNextLevel at max: got %d want 0", got)
	}
}
