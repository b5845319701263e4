package scheduler

// walkCycle 从 pos 开始向前扫描轮转（循环），返回第一个属于候选集合的班次，
// 并把位置推进到该班次之后。没有命中时返回候选集合的第一个，位置保持不变。
func walkCycle(rotation []string, pos int, candidates []ShiftType) (ShiftType, int, bool) {
	if len(candidates) == 0 {
		return ShiftType{}, pos, false
	}
	n := len(rotation)
	if n > 0 {
		byCode := make(map[string]ShiftType, len(candidates))
		for _, s := range candidates {
			byCode[s.Code] = s
		}
		start := ((pos % n) + n) % n
		for i := 0; i < n; i++ {
			idx := (start + i) % n
			if s, ok := byCode[rotation[idx]]; ok {
				return s, (idx + 1) % n, true
			}
		}
	}
	return candidates[0], pos, true
}

// seedPosition 根据历史推断轮转位置：最近一个出现在轮转中的代码之后；无历史为 0
func seedPosition(rotation []string, history []string) int {
	if len(rotation) == 0 {
		return 0
	}
	for i := len(history) - 1; i >= 0; i-- {
		for idx, code := range rotation {
			if code == history[i] {
				return (idx + 1) % len(rotation)
			}
		}
	}
	return 0
}
