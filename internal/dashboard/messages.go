package dashboard

import "github.com/bobmcallan/agripulse/internal/common"

// Activity stream categories beyond the six feed types.
const (
	kindCorrelation = "correlation"
	kindAI          = "ai"
	kindRegion      = "region"
)

const fallbackMessage = "Data stream active"

var cannedMessages = map[string][]string{
	"prices": {
		"ICO prices down 12% - Brazil drought impact",
		"Arabica futures spike +8% on supply concerns",
		"Vietnam robusta exports delayed - opportunity window",
		"NY Coffee futures hit 3-month high",
		"Burundi premium grade +15% vs benchmark",
	},
	"weather": {
		"Satellite imagery: Heavy rains approaching Kayanza",
		"Drought conditions detected in Ngozi province",
		"Optimal harvest weather window: 5 days remaining",
		"Temperature anomaly: +3°C above seasonal average",
		"Rainfall 40% below normal - irrigation recommended",
	},
	"disease": {
		"Coffee leaf rust detected via drone surveillance",
		"Fungal spore count elevated in Muyinga region",
		"Berry borer infestation spreading from Tanzania",
		"Resistant variety adoption recommended",
		"Organic treatment effectiveness: 78% success rate",
	},
	"market": {
		"Bujumbura auction: Premium grade +22% price jump",
		"Export permits processed: 847 tons this week",
		"Quality scores trending upward: avg 84.5 points",
		"Direct trade inquiries from EU buyers +35%",
		"Cooperative membership growing: 1,247 new farmers",
	},
	"news": {
		"Government announces coffee sector investment plan",
		"New processing facility opens in Kayanza",
		"International buyers delegation arriving next week",
		"Coffee export tax reduced by 2% - profit boost",
		"Sustainable certification program launched",
	},
	"currency": {
		"BIF strengthening: Export profits up 8%",
		"USD/BIF rate favorable for next 30 days",
		"Central bank intervention stabilizing rates",
		"Remittance flows supporting currency",
		"Regional currency union talks progressing",
	},
	kindCorrelation: {
		"AI detected: Weather pattern → Price volatility",
		"Correlation found: Disease outbreak → Market shift",
		"Pattern match: Brazil frost → Burundi opportunity",
		"Supply chain disruption → Premium pricing window",
		"Quality scores correlate with rainfall patterns",
	},
	kindAI: {
		"AI Analysis: Optimal selling window in 3-5 days",
		"Machine learning: 87% confidence price increase",
		"Predictive model: Harvest timing critical",
		"Algorithm suggests: Focus on premium grades",
		"Intelligence synthesis: Multiple positive signals",
	},
}

// pickMessage returns a random canned message for kind, or the fallback when
// kind has none.
func pickMessage(r common.Random, kind string) string {
	msgs, ok := cannedMessages[kind]
	if !ok || len(msgs) == 0 {
		return fallbackMessage
	}
	return msgs[r.Intn(len(msgs))]
}
