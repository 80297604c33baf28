package signal

// Explanation is the educational copy shown alongside each signal.
type Explanation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	HowItWorks  string `json:"howItWorks"`
}

// Explanations maps each signal type to its educational copy.
var Explanations = map[Type]Explanation{
	Volume: {
		Title:       "Volume Signal",
		Description: "High trading volume indicates strong market interest and confidence. Markets with >$10k volume tend to have more accurate outcomes.",
		HowItWorks:  "We track markets with high trading activity. When many traders are active, prices tend to be more reliable.",
	},
	Twitter: {
		Title:       "Social Sentiment Signal",
		Description: "Price volatility often correlates with social media buzz and breaking news. Rapid price changes indicate viral discussions.",
		HowItWorks:  "Markets with prices between 30-70% show uncertainty, often driven by Twitter trends and news coverage.",
	},
	Whales: {
		Title:       "Whale Activity Signal",
		Description: "Large liquidity pools suggest institutional or whale trader interest. These informed traders often predict correctly.",
		HowItWorks:  "We identify markets with >$5k liquidity, indicating smart money involvement.",
	},
	News: {
		Title:       "News Impact Signal",
		Description: "Combines volume and liquidity changes. News events drive both metrics simultaneously.",
		HowItWorks:  "Breaking news creates volume spikes AND liquidity changes as traders react.",
	},
}
