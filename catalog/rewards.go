package catalog

import "attendance-rewards/models"

// rewardFor sizes the default XP/coin reward of a badge by rarity.
func rewardFor(r models.BadgeRarity) (xp, coins int64) {
	switch r {
	case models.RarityUncommon:
		return 50, 10
	case models.RarityRare:
		return 100, 25
	case models.RarityEpic:
		return 250, 50
	case models.RarityLegendary:
		return 500, 100
	default:
		return 25, 5
	}
}

func badge(name, desc string, rarity models.BadgeRarity, crit models.CriteriaDescriptor) Badge {
	xp, coins := rewardFor(rarity)
	return Badge{
		Name:        name,
		Description: desc,
		Criteria:    crit,
		Rarity:      rarity,
		XPReward:    xp,
		CoinReward:  coins,
	}
}

func stat(key models.StatKey, value int) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: models.CriteriaThreshold, Stat: key, Value: value}
}

func streak(days int) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: models.CriteriaStreak, Days: days}
}

func shields(count int) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: models.CriteriaShieldsUsed, Count: count}
}

func level(n int) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: models.CriteriaLevel, Level: n}
}

func advanced(t models.CriteriaType, params map[string]any) models.CriteriaDescriptor {
	return models.CriteriaDescriptor{Type: t, Params: params}
}

func hidden(b Badge) Badge {
	b.Hidden = true
	return b
}

func seasonal(b Badge, start, end string) Badge {
	b.SeasonStart, b.SeasonEnd = start, end
	b.CollectionSet = "seasons"
	return b
}

func inSet(b Badge, set string) Badge {
	b.CollectionSet = set
	return b
}
