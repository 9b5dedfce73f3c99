package client

// debankUsedChainsResponse is the payload of /user/used_chains. Data is a
// pointer so a 200 with no data key (rate limiting, bot checks) surfaces
// as an error instead of an empty chain list.
type debankUsedChainsResponse struct {
	Data *struct {
		Chains []string `json:"chains"`
	} `json:"data"`
}

// debankTokenItem is one token entry of /token/balance_list. ID carries a
// contract address for tokens and a chain id for native coins.
type debankTokenItem struct {
	ID        string  `json:"id"`
	Chain     string  `json:"chain"`
	Name      string  `json:"name"`
	Symbol    string  `json:"symbol"`
	Decimals  int     `json:"decimals"`
	RawAmount float64 `json:"raw_amount"`
	Balance   float64 `json:"balance"`
	Price     float64 `json:"price"`
}

type debankBalanceListResponse struct {
	Data *[]debankTokenItem `json:"data"`
}
