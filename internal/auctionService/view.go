package auction

import (
	"chit-auction/internal/models"

	"github.com/shopspring/decimal"
)

// StateView is the read model shown in the auction room
type StateView struct {
	Running            bool            `json:"running"`
	Finished           bool            `json:"finished"`
	SecondsLeft        int             `json:"secondsLeft"`
	EndTime            *int64          `json:"endTime,omitempty"`
	CurrentLoss        int64           `json:"currentLoss"`
	MinLoss            int64           `json:"minLoss"`
	ChitValue          int64           `json:"chitValue"`
	TopBidder          *models.Bidder  `json:"topBidder,omitempty"`
	Bidders            []models.Bidder `json:"bidders"`
	Winner             *models.Winner  `json:"winner,omitempty"`
	InHand             int64           `json:"inHand"`
	HighestInterestPct string          `json:"highestInterestPct"`
	JoinedUsers        int             `json:"joinedUsers"`
	ActiveBatchID      string          `json:"activeBatchId,omitempty"`
}

// View projects the current state. SecondsLeft of a running round is recomputed from endTime.
func (e *Engine) View() StateView {
	e.mu.Lock()
	cfg := cloneConfig(e.config)
	st := cloneState(e.state)
	e.mu.Unlock()

	if st.Running && st.EndTime != nil {
		st.SecondsLeft = RemainingSeconds(*st.EndTime, e.now())
	}
	return project(cfg, st)
}

func project(cfg models.AuctionConfig, st models.AuctionState) StateView {
	v := StateView{
		Running:       st.Running,
		Finished:      st.Finished,
		SecondsLeft:   st.SecondsLeft,
		EndTime:       st.EndTime,
		CurrentLoss:   st.CurrentLoss,
		MinLoss:       cfg.MinLoss,
		ChitValue:     cfg.ChitValue,
		Bidders:       st.Bidders,
		Winner:        st.Winner,
		JoinedUsers:   cfg.JoinedUsers,
		ActiveBatchID: cfg.ActiveBatchID,
	}

	loss := cfg.MinLoss
	if len(st.Bidders) > 0 {
		top := st.Bidders[0]
		v.TopBidder = &top
		loss = top.Loss
	}
	v.InHand = max(cfg.ChitValue-loss, 0)
	v.HighestInterestPct = "0.00"
	if cfg.ChitValue > 0 {
		v.HighestInterestPct = decimal.NewFromInt(loss).
			Div(decimal.NewFromInt(cfg.ChitValue)).
			Mul(decimal.NewFromInt(100)).
			StringFixed(2)
	}
	return v
}
