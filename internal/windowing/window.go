package windowing

import "github.com/anthropics/anthropic-sdk-go"

// Stats describes one windowing decision.
type Stats struct {
	Budget   int
	Total    int // estimated cost of the kept groups
	Kept     int
	Dropped  int
	Overflow bool // the newest group alone exceeds the budget
}

// Window returns the longest suffix of msgs made of whole groups whose
// estimated cost fits budget. The result is empty and Overflow set when even
// the newest group does not fit. A budget <= 0 disables trimming.
func Window(msgs []anthropic.MessageParam, budget int, c Counter) ([]anthropic.MessageParam, Stats) {
	groups := GroupMessages(msgs)
	st := Stats{Budget: budget}
	if budget <= 0 {
		for _, g := range groups {
			st.Total += groupCost(c, g, msgs)
		}
		st.Kept = len(groups)
		return msgs, st
	}

	start := len(msgs)
	for i := len(groups) - 1; i >= 0; i-- {
		cost := groupCost(c, groups[i], msgs)
		if st.Total+cost > budget {
			break
		}
		st.Total += cost
		st.Kept++
		start = groups[i].Start
	}
	st.Dropped = len(groups) - st.Kept
	if st.Kept == 0 {
		st.Overflow = len(groups) > 0
		return nil, st
	}
	return msgs[start:], st
}
