package api

// All monetary amounts cross the wire as int64 paise; formatted rupee
// strings are provided where the original UI displayed them.

type placeBetRequest struct {
	MarketID    string `json:"market_id" validate:"required,uuid4"`
	BetOptionID string `json:"bet_option_id" validate:"required,uuid4"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
}

type placeBetResponse struct {
	BetID string  `json:"bet_id"`
	Odds  float64 `json:"odds"`
}

type createMatchRequest struct {
	TeamA     string `json:"team_a" validate:"required,min=1"`
	TeamB     string `json:"team_b" validate:"required,min=1"`
	MatchDate string `json:"match_date" validate:"required"`
	Venue     string `json:"venue" validate:"omitempty"`
	FeedURL   string `json:"feed_url" validate:"omitempty,url"`
}

type updateMatchRequest struct {
	Status string `json:"status" validate:"required,oneof=upcoming live completed cancelled"`
}

type createMarketRequest struct {
	MatchID      string   `json:"match_id" validate:"required,uuid4"`
	MarketType   string   `json:"market_type" validate:"required,oneof=winner top_scorer over_under live custom"`
	HouseEdgePct *float64 `json:"house_edge_pct" validate:"omitempty,gte=0,lte=20"`
	Options      []string `json:"options" validate:"required,min=2,dive,min=1"`
}

type updateMarketRequest struct {
	Status string `json:"status" validate:"required,oneof=closed"`
}

type settleRequest struct {
	MarketID        string `json:"market_id" validate:"required,uuid4"`
	WinningOptionID string `json:"winning_option_id" validate:"required,uuid4"`
}

type topupRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid4"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"omitempty"`
}

type optionResponse struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	TotalAmountBet int64  `json:"total_amount_bet"`
}

type marketResponse struct {
	ID           string           `json:"id"`
	MarketType   string           `json:"market_type"`
	HouseEdgePct float64          `json:"house_edge_pct"`
	Status       string           `json:"status"`
	Result       *string          `json:"result,omitempty"`
	Options      []optionResponse `json:"options"`
}

type matchResponse struct {
	ID         string           `json:"id"`
	TeamA      string           `json:"team_a"`
	TeamB      string           `json:"team_b"`
	MatchDate  string           `json:"match_date"`
	Venue      *string          `json:"venue,omitempty"`
	Status     string           `json:"status"`
	LiveScoreA *string          `json:"live_score_a,omitempty"`
	LiveScoreB *string          `json:"live_score_b,omitempty"`
	LiveOversA *string          `json:"live_overs_a,omitempty"`
	LiveOversB *string          `json:"live_overs_b,omitempty"`
	Markets    []marketResponse `json:"markets"`
}

type betResponse struct {
	ID              string  `json:"id"`
	MarketID        string  `json:"market_id"`
	BetOptionID     string  `json:"bet_option_id"`
	Amount          int64   `json:"amount"`
	OddsAtPlacement float64 `json:"odds_at_placement"`
	Status          string  `json:"status"`
	Payout          int64   `json:"payout"`
	CreatedAt       string  `json:"created_at"`
}

type ledgerEntryResponse struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}
