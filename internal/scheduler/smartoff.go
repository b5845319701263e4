package scheduler

import (
	"math"
	"sort"
)

// offCap 当天的休息名额：ceil(人数 × 目标比例)，高需求日减半（至少 1）
func offCap(headcount int, ratio float64, highDemand bool) int {
	c := int(math.Ceil(float64(headcount) * ratio))
	if highDemand {
		c /= 2
		if c < 1 {
			c = 1
		}
	}
	return c
}

// orderForSmartOff 被强制休息者在前，其次休息天数最少、工作次数最多者，最后按 ID
func orderForSmartOff(cands []*empState, forced map[string]bool) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if forced[a.emp.ID] != forced[b.emp.ID] {
			return forced[a.emp.ID]
		}
		if a.daysOff != b.daysOff {
			return a.daysOff < b.daysOff
		}
		if a.workCount != b.workCount {
			return a.workCount > b.workCount
		}
		return a.emp.ID < b.emp.ID
	})
}

// wantsVoluntaryOff 名额未满、非高需求日且休息天数落后于目标进度
func wantsVoluntaryOff(st *empState, offToday, limit int, highDemand bool, ratio float64, dayIndex int) bool {
	if highDemand || offToday >= limit {
		return false
	}
	return float64(st.daysOff) < ratio*float64(dayIndex)
}
