package scheduler

import "time"

const (
	minPriority           = 1
	maxPriority           = 10
	highDemandMaxPriority = 2
)

// DemandWeight 赛事权重：11 - 优先级（1 → 10，10 → 1）
func DemandWeight(priority int) int {
	if priority < minPriority {
		priority = minPriority
	}
	if priority > maxPriority {
		priority = maxPriority
	}
	return maxPriority + 1 - priority
}

// DemandMap 目标月每天的需求强度
type DemandMap struct {
	Weight     map[string]int
	HighDemand map[string]bool
	// EventsConsidered 与目标月有交集的赛事数
	EventsConsidered int
}

// IsHighDemand 当天是否有优先级 ≤ 2 的赛事
func (d DemandMap) IsHighDemand(day time.Time) bool {
	return d.HighDemand[dayKey(day)]
}

// WeightOf 当天的需求权重总和
func (d DemandMap) WeightOf(day time.Time) int {
	return d.Weight[dayKey(day)]
}

// BuildDemandMap 把赛事映射到目标月的每一天
func BuildDemandMap(events []DemandEvent, year int, month time.Month) DemandMap {
	first, last := MonthRange(year, month)
	dm := DemandMap{
		Weight:     make(map[string]int),
		HighDemand: make(map[string]bool),
	}
	for _, ev := range events {
		start := DateOf(ev.Start)
		end := start
		if ev.End != nil && ev.End.After(ev.Start) {
			end = DateOf(*ev.End)
		}
		if end.Before(first) || start.After(last) {
			continue
		}
		dm.EventsConsidered++
		if start.Before(first) {
			start = first
		}
		if end.After(last) {
			end = last
		}
		w := DemandWeight(ev.Priority)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			k := dayKey(d)
			dm.Weight[k] += w
			if ev.Priority <= highDemandMaxPriority {
				dm.HighDemand[k] = true
			}
		}
	}
	return dm
}
